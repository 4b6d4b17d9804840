package manager

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/supremind/appaccess/internal/graph"
	"github.com/supremind/appaccess/internal/mapping"
	"github.com/supremind/appaccess/types"
)

// manager owns the membership graph and the mapping store, and implements the
// AccessManager interface on top of them: mutations validate fully before touching
// either structure, queries walk the graph from the queried subject.
//
// manager itself is not safe for concurrent use; wrap it with NewSynced.
type manager[TUser, TGroup, TComponent, TAccess comparable] struct {
	graph *graph.Graph[TUser, TGroup]
	store *mapping.Store[TUser, TGroup, TComponent, TAccess]
	log   logr.Logger
}

var _ types.AccessManager[string, string, string, string] = (*manager[string, string, string, string])(nil)

// New creates a bare, unsynchronized access manager
func New[TUser, TGroup, TComponent, TAccess comparable](log logr.Logger) types.AccessManager[TUser, TGroup, TComponent, TAccess] {
	return &manager[TUser, TGroup, TComponent, TAccess]{
		graph: graph.New[TUser, TGroup](),
		store: mapping.New[TUser, TGroup, TComponent, TAccess](),
		log:   log,
	}
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddUser(user TUser) error {
	m.log.V(4).Info("add user", "user", user)
	return m.graph.AddUser(user)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) ContainsUser(user TUser) bool {
	return m.graph.ContainsUser(user)
}

// RemoveUser removes the user, its membership edges, and all mappings it holds
func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveUser(user TUser) error {
	m.log.V(4).Info("remove user", "user", user)

	if e := m.graph.RemoveUser(user); e != nil {
		return e
	}
	m.store.RemoveUserSubject(user)
	return nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) Users() map[TUser]struct{} {
	return copySet(m.graph.Users())
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddGroup(group TGroup) error {
	m.log.V(4).Info("add group", "group", group)
	return m.graph.AddGroup(group)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) ContainsGroup(group TGroup) bool {
	return m.graph.ContainsGroup(group)
}

// RemoveGroup removes the group, every membership edge incident to it, and all
// mappings it holds
func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveGroup(group TGroup) error {
	m.log.V(4).Info("remove group", "group", group)

	if e := m.graph.RemoveGroup(group); e != nil {
		return e
	}
	m.store.RemoveGroupSubject(group)
	return nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) Groups() map[TGroup]struct{} {
	return copySet(m.graph.Groups())
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddUserToGroupMapping(user TUser, group TGroup) error {
	m.log.V(4).Info("add user to group mapping", "user", user, "group", group)
	return m.graph.AddUserEdge(user, group)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetUserToGroupMappings(user TUser) (map[TGroup]struct{}, error) {
	groups, e := m.graph.DirectGroupsOfUser(user)
	if e != nil {
		return nil, e
	}
	return copySet(groups), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveUserToGroupMapping(user TUser, group TGroup) error {
	m.log.V(4).Info("remove user to group mapping", "user", user, "group", group)
	return m.graph.RemoveUserEdge(user, group)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddGroupToGroupMapping(fromGroup, toGroup TGroup) error {
	m.log.V(4).Info("add group to group mapping", "from", fromGroup, "to", toGroup)
	return m.graph.AddGroupEdge(fromGroup, toGroup)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetGroupToGroupMappings(group TGroup) (map[TGroup]struct{}, error) {
	groups, e := m.graph.DirectGroupsOfGroup(group)
	if e != nil {
		return nil, e
	}
	return copySet(groups), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveGroupToGroupMapping(fromGroup, toGroup TGroup) error {
	m.log.V(4).Info("remove group to group mapping", "from", fromGroup, "to", toGroup)
	return m.graph.RemoveGroupEdge(fromGroup, toGroup)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddUserToComponentMapping(user TUser, component TComponent, access TAccess) error {
	m.log.V(4).Info("add user to component mapping", "user", user, "component", component, "access", access)

	if !m.graph.ContainsUser(user) {
		return fmt.Errorf("%w: user: %v: %w", types.ErrInvalidReference, user, types.ErrNotFound)
	}
	return m.store.AddUserComponent(user, component, access)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetUserToComponentMappings(user TUser) (map[types.ComponentAccess[TComponent, TAccess]]struct{}, error) {
	if !m.graph.ContainsUser(user) {
		return nil, fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	return copySet(m.store.UserComponents(user)), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveUserToComponentMapping(user TUser, component TComponent, access TAccess) error {
	m.log.V(4).Info("remove user to component mapping", "user", user, "component", component, "access", access)

	if !m.graph.ContainsUser(user) {
		return fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	return m.store.RemoveUserComponent(user, component, access)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddGroupToComponentMapping(group TGroup, component TComponent, access TAccess) error {
	m.log.V(4).Info("add group to component mapping", "group", group, "component", component, "access", access)

	if !m.graph.ContainsGroup(group) {
		return fmt.Errorf("%w: group: %v: %w", types.ErrInvalidReference, group, types.ErrNotFound)
	}
	return m.store.AddGroupComponent(group, component, access)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetGroupToComponentMappings(group TGroup) (map[types.ComponentAccess[TComponent, TAccess]]struct{}, error) {
	if !m.graph.ContainsGroup(group) {
		return nil, fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}
	return copySet(m.store.GroupComponents(group)), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveGroupToComponentMapping(group TGroup, component TComponent, access TAccess) error {
	m.log.V(4).Info("remove group to component mapping", "group", group, "component", component, "access", access)

	if !m.graph.ContainsGroup(group) {
		return fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}
	return m.store.RemoveGroupComponent(group, component, access)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddEntityType(entityType string) error {
	m.log.V(4).Info("add entity type", "entityType", entityType)
	return m.store.AddEntityType(entityType)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) ContainsEntityType(entityType string) bool {
	return m.store.ContainsEntityType(entityType)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveEntityType(entityType string) error {
	m.log.V(4).Info("remove entity type", "entityType", entityType)
	return m.store.RemoveEntityType(entityType)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) EntityTypes() map[string]struct{} {
	return m.store.EntityTypes()
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddEntity(entityType, entity string) error {
	m.log.V(4).Info("add entity", "entityType", entityType, "entity", entity)
	return m.store.AddEntity(entityType, entity)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) ContainsEntity(entityType, entity string) bool {
	return m.store.ContainsEntity(entityType, entity)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveEntity(entityType, entity string) error {
	m.log.V(4).Info("remove entity", "entityType", entityType, "entity", entity)
	return m.store.RemoveEntity(entityType, entity)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetEntities(entityType string) (map[string]struct{}, error) {
	entities, e := m.store.Entities(entityType)
	if e != nil {
		return nil, e
	}
	return copySet(entities), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddUserToEntityMapping(user TUser, entityType, entity string) error {
	m.log.V(4).Info("add user to entity mapping", "user", user, "entityType", entityType, "entity", entity)

	if !m.graph.ContainsUser(user) {
		return fmt.Errorf("%w: user: %v: %w", types.ErrInvalidReference, user, types.ErrNotFound)
	}
	return m.store.AddUserEntity(user, entityType, entity)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetUserToEntityMappings(user TUser) ([]types.TypedEntity, error) {
	if !m.graph.ContainsUser(user) {
		return nil, fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	return m.store.UserEntities(user), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetUserToEntityMappingsByType(user TUser, entityType string) (map[string]struct{}, error) {
	if !m.graph.ContainsUser(user) {
		return nil, fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	if !m.store.ContainsEntityType(entityType) {
		return nil, fmt.Errorf("%w: entity type: %s", types.ErrNotFound, entityType)
	}
	return copySet(m.store.UserEntitiesByType(user, entityType)), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveUserToEntityMapping(user TUser, entityType, entity string) error {
	m.log.V(4).Info("remove user to entity mapping", "user", user, "entityType", entityType, "entity", entity)

	if !m.graph.ContainsUser(user) {
		return fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	return m.store.RemoveUserEntity(user, entityType, entity)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) AddGroupToEntityMapping(group TGroup, entityType, entity string) error {
	m.log.V(4).Info("add group to entity mapping", "group", group, "entityType", entityType, "entity", entity)

	if !m.graph.ContainsGroup(group) {
		return fmt.Errorf("%w: group: %v: %w", types.ErrInvalidReference, group, types.ErrNotFound)
	}
	return m.store.AddGroupEntity(group, entityType, entity)
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetGroupToEntityMappings(group TGroup) ([]types.TypedEntity, error) {
	if !m.graph.ContainsGroup(group) {
		return nil, fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}
	return m.store.GroupEntities(group), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GetGroupToEntityMappingsByType(group TGroup, entityType string) (map[string]struct{}, error) {
	if !m.graph.ContainsGroup(group) {
		return nil, fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}
	if !m.store.ContainsEntityType(entityType) {
		return nil, fmt.Errorf("%w: entity type: %s", types.ErrNotFound, entityType)
	}
	return copySet(m.store.GroupEntitiesByType(group, entityType)), nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) RemoveGroupToEntityMapping(group TGroup, entityType, entity string) error {
	m.log.V(4).Info("remove group to entity mapping", "group", group, "entityType", entityType, "entity", entity)

	if !m.graph.ContainsGroup(group) {
		return fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}
	return m.store.RemoveGroupEntity(group, entityType, entity)
}

// HasAccessToComponent checks the user's own component mappings first, then the
// mappings of every group reachable from the user, stopping at the first match
func (m *manager[TUser, TGroup, TComponent, TAccess]) HasAccessToComponent(user TUser, component TComponent, access TAccess) (bool, error) {
	m.log.V(6).Info("has access to component", "user", user, "component", component, "access", access)

	if !m.graph.ContainsUser(user) {
		return false, fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	if m.store.UserHasComponent(user, component, access) {
		return true, nil
	}

	found := false
	if e := m.graph.TraverseFromUser(user, func(group TGroup) bool {
		if m.store.GroupHasComponent(group, component, access) {
			found = true
			return false
		}
		return true
	}); e != nil {
		return false, e
	}
	return found, nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GroupHasAccessToComponent(group TGroup, component TComponent, access TAccess) (bool, error) {
	m.log.V(6).Info("group has access to component", "group", group, "component", component, "access", access)

	found := false
	if e := m.graph.TraverseFromGroup(group, func(next TGroup) bool {
		if m.store.GroupHasComponent(next, component, access) {
			found = true
			return false
		}
		return true
	}); e != nil {
		return false, e
	}
	return found, nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) HasAccessToEntity(user TUser, entityType, entity string) (bool, error) {
	m.log.V(6).Info("has access to entity", "user", user, "entityType", entityType, "entity", entity)

	if e := m.validateEntity(entityType, entity); e != nil {
		return false, e
	}
	if !m.graph.ContainsUser(user) {
		return false, fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	if m.store.UserHasEntity(user, entityType, entity) {
		return true, nil
	}

	found := false
	if e := m.graph.TraverseFromUser(user, func(group TGroup) bool {
		if m.store.GroupHasEntity(group, entityType, entity) {
			found = true
			return false
		}
		return true
	}); e != nil {
		return false, e
	}
	return found, nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GroupHasAccessToEntity(group TGroup, entityType, entity string) (bool, error) {
	m.log.V(6).Info("group has access to entity", "group", group, "entityType", entityType, "entity", entity)

	if e := m.validateEntity(entityType, entity); e != nil {
		return false, e
	}

	found := false
	if e := m.graph.TraverseFromGroup(group, func(next TGroup) bool {
		if m.store.GroupHasEntity(next, entityType, entity) {
			found = true
			return false
		}
		return true
	}); e != nil {
		return false, e
	}
	return found, nil
}

// AccessibleEntities unions the entity mappings of the user and of every reachable
// group; unlike the access checks it cannot stop early. An entity type nothing is
// mapped to, including one already removed, yields the empty set, not an error.
func (m *manager[TUser, TGroup, TComponent, TAccess]) AccessibleEntities(user TUser, entityType string) (map[string]struct{}, error) {
	m.log.V(6).Info("accessible entities", "user", user, "entityType", entityType)

	if !m.graph.ContainsUser(user) {
		return nil, fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}

	accessible := copySet(m.store.UserEntitiesByType(user, entityType))
	if e := m.graph.TraverseFromUser(user, func(group TGroup) bool {
		for entity := range m.store.GroupEntitiesByType(group, entityType) {
			accessible[entity] = struct{}{}
		}
		return true
	}); e != nil {
		return nil, e
	}
	return accessible, nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) GroupAccessibleEntities(group TGroup, entityType string) (map[string]struct{}, error) {
	m.log.V(6).Info("group accessible entities", "group", group, "entityType", entityType)

	if !m.graph.ContainsGroup(group) {
		return nil, fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}

	accessible := make(map[string]struct{})
	if e := m.graph.TraverseFromGroup(group, func(next TGroup) bool {
		for entity := range m.store.GroupEntitiesByType(next, entityType) {
			accessible[entity] = struct{}{}
		}
		return true
	}); e != nil {
		return nil, e
	}
	return accessible, nil
}

func (m *manager[TUser, TGroup, TComponent, TAccess]) validateEntity(entityType, entity string) error {
	if !m.store.ContainsEntityType(entityType) {
		return fmt.Errorf("%w: entity type: %s", types.ErrNotFound, entityType)
	}
	if !m.store.ContainsEntity(entityType, entity) {
		return fmt.Errorf("%w: entity: %s/%s", types.ErrNotFound, entityType, entity)
	}
	return nil
}

// copySet detaches a lookup result from the internal state before it crosses the
// public boundary
func copySet[K comparable](in map[K]struct{}) map[K]struct{} {
	out := make(map[K]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
