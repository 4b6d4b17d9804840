package types

// AccessManager is the top level interface for end use.
// It manages the access of users, and groups of users, to the components and entities
// of an application, with knowledge of user-group and group-group memberships.
//
// The type parameters are the caller's own types for users, groups, application
// components, and levels of access to those components. They only need to be
// comparable, so they can key the internal maps and sets.
type AccessManager[TUser, TGroup, TComponent, TAccess comparable] interface {
	UserManager[TUser, TGroup]
	GroupManager[TGroup]
	ComponentMapper[TUser, TGroup, TComponent, TAccess]
	EntityManager[TUser, TGroup]
	AccessQuerier[TUser, TGroup, TComponent, TAccess]
}

// UserManager manages users and user-group memberships
type UserManager[TUser, TGroup comparable] interface {
	// AddUser adds a user
	AddUser(user TUser) error
	// ContainsUser tells if the user exists
	ContainsUser(user TUser) bool
	// RemoveUser removes a user, its memberships, and all mappings about it
	RemoveUser(user TUser) error
	// Users returns all known users
	Users() map[TUser]struct{}

	// AddUserToGroupMapping makes the user a member of the group
	AddUserToGroupMapping(user TUser, group TGroup) error
	// GetUserToGroupMappings returns the groups the user is a direct member of
	GetUserToGroupMappings(user TUser) (map[TGroup]struct{}, error)
	// RemoveUserToGroupMapping removes the user's membership of the group
	RemoveUserToGroupMapping(user TUser, group TGroup) error
}

// GroupManager manages groups and group-group memberships
type GroupManager[TGroup comparable] interface {
	// AddGroup adds a group
	AddGroup(group TGroup) error
	// ContainsGroup tells if the group exists
	ContainsGroup(group TGroup) bool
	// RemoveGroup removes a group, all memberships it takes part in, and all
	// mappings about it
	RemoveGroup(group TGroup) error
	// Groups returns all known groups
	Groups() map[TGroup]struct{}

	// AddGroupToGroupMapping makes fromGroup a member of toGroup
	AddGroupToGroupMapping(fromGroup, toGroup TGroup) error
	// GetGroupToGroupMappings returns the groups the group is a direct member of
	GetGroupToGroupMappings(group TGroup) (map[TGroup]struct{}, error)
	// RemoveGroupToGroupMapping removes fromGroup's membership of toGroup
	RemoveGroupToGroupMapping(fromGroup, toGroup TGroup) error
}

// ComponentMapper manages mappings between subjects and application components at
// given levels of access
type ComponentMapper[TUser, TGroup, TComponent, TAccess comparable] interface {
	// AddUserToComponentMapping grants the user the given level of access to the component
	AddUserToComponentMapping(user TUser, component TComponent, access TAccess) error
	// GetUserToComponentMappings returns the component and access level pairs mapped to the user
	GetUserToComponentMappings(user TUser) (map[ComponentAccess[TComponent, TAccess]]struct{}, error)
	// RemoveUserToComponentMapping removes the user's access to the component at the given level
	RemoveUserToComponentMapping(user TUser, component TComponent, access TAccess) error

	// AddGroupToComponentMapping grants the group the given level of access to the component
	AddGroupToComponentMapping(group TGroup, component TComponent, access TAccess) error
	// GetGroupToComponentMappings returns the component and access level pairs mapped to the group
	GetGroupToComponentMappings(group TGroup) (map[ComponentAccess[TComponent, TAccess]]struct{}, error)
	// RemoveGroupToComponentMapping removes the group's access to the component at the given level
	RemoveGroupToComponentMapping(group TGroup, component TComponent, access TAccess) error
}

// EntityManager manages the entity type and entity registry, and mappings between
// subjects and entities
type EntityManager[TUser, TGroup comparable] interface {
	// AddEntityType adds an entity type
	AddEntityType(entityType string) error
	// ContainsEntityType tells if the entity type exists
	ContainsEntityType(entityType string) bool
	// RemoveEntityType removes an entity type, all entities of the type, and all
	// mappings about them
	RemoveEntityType(entityType string) error
	// EntityTypes returns all known entity types
	EntityTypes() map[string]struct{}

	// AddEntity adds an entity of the given type
	AddEntity(entityType, entity string) error
	// ContainsEntity tells if the entity exists
	ContainsEntity(entityType, entity string) bool
	// RemoveEntity removes an entity and all mappings about it
	RemoveEntity(entityType, entity string) error
	// GetEntities returns all entities of the given type
	GetEntities(entityType string) (map[string]struct{}, error)

	// AddUserToEntityMapping maps the user to the entity
	AddUserToEntityMapping(user TUser, entityType, entity string) error
	// GetUserToEntityMappings returns all entities mapped to the user, of any type
	GetUserToEntityMappings(user TUser) ([]TypedEntity, error)
	// GetUserToEntityMappingsByType returns the entities of the given type mapped to the user
	GetUserToEntityMappingsByType(user TUser, entityType string) (map[string]struct{}, error)
	// RemoveUserToEntityMapping removes the mapping between the user and the entity
	RemoveUserToEntityMapping(user TUser, entityType, entity string) error

	// AddGroupToEntityMapping maps the group to the entity
	AddGroupToEntityMapping(group TGroup, entityType, entity string) error
	// GetGroupToEntityMappings returns all entities mapped to the group, of any type
	GetGroupToEntityMappings(group TGroup) ([]TypedEntity, error)
	// GetGroupToEntityMappingsByType returns the entities of the given type mapped to the group
	GetGroupToEntityMappingsByType(group TGroup, entityType string) (map[string]struct{}, error)
	// RemoveGroupToEntityMapping removes the mapping between the group and the entity
	RemoveGroupToEntityMapping(group TGroup, entityType, entity string) error
}

// AccessQuerier answers access questions by walking the membership graph from the
// queried subject. All methods are read only, and fail with ErrNotFound when the
// queried subject is unknown: an unknown subject is a distinct condition from a
// known subject holding no access.
type AccessQuerier[TUser, TGroup, TComponent, TAccess comparable] interface {
	// HasAccessToComponent tells if the user, or any group the user transitively
	// belongs to, has access to the component at the given level
	HasAccessToComponent(user TUser, component TComponent, access TAccess) (bool, error)
	// GroupHasAccessToComponent tells if the group, or any group it transitively
	// belongs to, has access to the component at the given level
	GroupHasAccessToComponent(group TGroup, component TComponent, access TAccess) (bool, error)

	// HasAccessToEntity tells if the user, or any group the user transitively
	// belongs to, is mapped to the entity
	HasAccessToEntity(user TUser, entityType, entity string) (bool, error)
	// GroupHasAccessToEntity tells if the group, or any group it transitively
	// belongs to, is mapped to the entity
	GroupHasAccessToEntity(group TGroup, entityType, entity string) (bool, error)

	// AccessibleEntities returns all entities of the given type mapped to the user
	// or to any group the user transitively belongs to
	AccessibleEntities(user TUser, entityType string) (map[string]struct{}, error)
	// GroupAccessibleEntities returns all entities of the given type mapped to the
	// group or to any group it transitively belongs to
	GroupAccessibleEntities(group TGroup, entityType string) (map[string]struct{}, error)
}
