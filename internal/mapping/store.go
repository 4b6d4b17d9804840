package mapping

import (
	"fmt"
	"strings"

	"github.com/supremind/appaccess/types"
)

// Store holds subject-to-component mappings, the entity type and entity registry,
// and subject-to-entity mappings. Subjects are users or groups; the store does not
// know the membership graph, so subject existence is validated by the caller.
//
// Store is not safe for concurrent use, and its lookup methods return the internal
// maps. Callers own the locking and must copy before handing maps out.
type Store[TUser, TGroup, TComponent, TAccess comparable] struct {
	userComponents  map[TUser]map[types.ComponentAccess[TComponent, TAccess]]struct{}
	groupComponents map[TGroup]map[types.ComponentAccess[TComponent, TAccess]]struct{}

	// entity type => entities of the type
	entities map[string]map[string]struct{}

	// subject => entity type => entities of the type mapped to the subject
	userEntities  map[TUser]map[string]map[string]struct{}
	groupEntities map[TGroup]map[string]map[string]struct{}
}

func New[TUser, TGroup, TComponent, TAccess comparable]() *Store[TUser, TGroup, TComponent, TAccess] {
	return &Store[TUser, TGroup, TComponent, TAccess]{
		userComponents:  make(map[TUser]map[types.ComponentAccess[TComponent, TAccess]]struct{}),
		groupComponents: make(map[TGroup]map[types.ComponentAccess[TComponent, TAccess]]struct{}),
		entities:        make(map[string]map[string]struct{}),
		userEntities:    make(map[TUser]map[string]map[string]struct{}),
		groupEntities:   make(map[TGroup]map[string]map[string]struct{}),
	}
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) AddUserComponent(user TUser, component TComponent, access TAccess) error {
	ca := types.ComponentAccess[TComponent, TAccess]{Component: component, Access: access}
	if _, ok := s.userComponents[user][ca]; ok {
		return fmt.Errorf("%w: component mapping: %v -> (%v, %v)", types.ErrAlreadyExists, user, component, access)
	}

	if s.userComponents[user] == nil {
		s.userComponents[user] = make(map[types.ComponentAccess[TComponent, TAccess]]struct{}, 1)
	}
	s.userComponents[user][ca] = struct{}{}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveUserComponent(user TUser, component TComponent, access TAccess) error {
	ca := types.ComponentAccess[TComponent, TAccess]{Component: component, Access: access}
	if _, ok := s.userComponents[user][ca]; !ok {
		return fmt.Errorf("%w: component mapping: %v -> (%v, %v)", types.ErrNotFound, user, component, access)
	}

	delete(s.userComponents[user], ca)
	if len(s.userComponents[user]) == 0 {
		delete(s.userComponents, user)
	}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) UserComponents(user TUser) map[types.ComponentAccess[TComponent, TAccess]]struct{} {
	return s.userComponents[user]
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) UserHasComponent(user TUser, component TComponent, access TAccess) bool {
	_, ok := s.userComponents[user][types.ComponentAccess[TComponent, TAccess]{Component: component, Access: access}]
	return ok
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) AddGroupComponent(group TGroup, component TComponent, access TAccess) error {
	ca := types.ComponentAccess[TComponent, TAccess]{Component: component, Access: access}
	if _, ok := s.groupComponents[group][ca]; ok {
		return fmt.Errorf("%w: component mapping: %v -> (%v, %v)", types.ErrAlreadyExists, group, component, access)
	}

	if s.groupComponents[group] == nil {
		s.groupComponents[group] = make(map[types.ComponentAccess[TComponent, TAccess]]struct{}, 1)
	}
	s.groupComponents[group][ca] = struct{}{}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveGroupComponent(group TGroup, component TComponent, access TAccess) error {
	ca := types.ComponentAccess[TComponent, TAccess]{Component: component, Access: access}
	if _, ok := s.groupComponents[group][ca]; !ok {
		return fmt.Errorf("%w: component mapping: %v -> (%v, %v)", types.ErrNotFound, group, component, access)
	}

	delete(s.groupComponents[group], ca)
	if len(s.groupComponents[group]) == 0 {
		delete(s.groupComponents, group)
	}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) GroupComponents(group TGroup) map[types.ComponentAccess[TComponent, TAccess]]struct{} {
	return s.groupComponents[group]
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) GroupHasComponent(group TGroup, component TComponent, access TAccess) bool {
	_, ok := s.groupComponents[group][types.ComponentAccess[TComponent, TAccess]{Component: component, Access: access}]
	return ok
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) AddEntityType(entityType string) error {
	if strings.TrimSpace(entityType) == "" {
		return fmt.Errorf("%w: entity type: %q", types.ErrInvalidName, entityType)
	}
	if _, ok := s.entities[entityType]; ok {
		return fmt.Errorf("%w: entity type: %s", types.ErrAlreadyExists, entityType)
	}

	s.entities[entityType] = make(map[string]struct{})
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) ContainsEntityType(entityType string) bool {
	_, ok := s.entities[entityType]
	return ok
}

// RemoveEntityType removes the entity type, all entities of the type, and every
// subject-to-entity mapping referencing them
func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveEntityType(entityType string) error {
	if _, ok := s.entities[entityType]; !ok {
		return fmt.Errorf("%w: entity type: %s", types.ErrNotFound, entityType)
	}

	for _, byType := range s.userEntities {
		delete(byType, entityType)
	}
	for _, byType := range s.groupEntities {
		delete(byType, entityType)
	}
	delete(s.entities, entityType)
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) EntityTypes() map[string]struct{} {
	entityTypes := make(map[string]struct{}, len(s.entities))
	for entityType := range s.entities {
		entityTypes[entityType] = struct{}{}
	}
	return entityTypes
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) AddEntity(entityType, entity string) error {
	if _, ok := s.entities[entityType]; !ok {
		return fmt.Errorf("%w: entity type: %s", types.ErrNotFound, entityType)
	}
	if strings.TrimSpace(entity) == "" {
		return fmt.Errorf("%w: entity: %q", types.ErrInvalidName, entity)
	}
	if _, ok := s.entities[entityType][entity]; ok {
		return fmt.Errorf("%w: entity: %s/%s", types.ErrAlreadyExists, entityType, entity)
	}

	s.entities[entityType][entity] = struct{}{}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) ContainsEntity(entityType, entity string) bool {
	_, ok := s.entities[entityType][entity]
	return ok
}

// RemoveEntity removes the entity and every subject-to-entity mapping referencing it
func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveEntity(entityType, entity string) error {
	if _, ok := s.entities[entityType]; !ok {
		return fmt.Errorf("%w: entity type: %s", types.ErrNotFound, entityType)
	}
	if _, ok := s.entities[entityType][entity]; !ok {
		return fmt.Errorf("%w: entity: %s/%s", types.ErrNotFound, entityType, entity)
	}

	for _, byType := range s.userEntities {
		delete(byType[entityType], entity)
	}
	for _, byType := range s.groupEntities {
		delete(byType[entityType], entity)
	}
	delete(s.entities[entityType], entity)
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) Entities(entityType string) (map[string]struct{}, error) {
	if _, ok := s.entities[entityType]; !ok {
		return nil, fmt.Errorf("%w: entity type: %s", types.ErrNotFound, entityType)
	}
	return s.entities[entityType], nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) AddUserEntity(user TUser, entityType, entity string) error {
	if e := s.validateEntity(entityType, entity); e != nil {
		return e
	}
	if _, ok := s.userEntities[user][entityType][entity]; ok {
		return fmt.Errorf("%w: entity mapping: %v -> %s/%s", types.ErrAlreadyExists, user, entityType, entity)
	}

	if s.userEntities[user] == nil {
		s.userEntities[user] = make(map[string]map[string]struct{}, 1)
	}
	if s.userEntities[user][entityType] == nil {
		s.userEntities[user][entityType] = make(map[string]struct{}, 1)
	}
	s.userEntities[user][entityType][entity] = struct{}{}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveUserEntity(user TUser, entityType, entity string) error {
	if _, ok := s.userEntities[user][entityType][entity]; !ok {
		return fmt.Errorf("%w: entity mapping: %v -> %s/%s", types.ErrNotFound, user, entityType, entity)
	}

	delete(s.userEntities[user][entityType], entity)
	if len(s.userEntities[user][entityType]) == 0 {
		delete(s.userEntities[user], entityType)
	}
	if len(s.userEntities[user]) == 0 {
		delete(s.userEntities, user)
	}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) UserEntities(user TUser) []types.TypedEntity {
	return flattenEntities(s.userEntities[user])
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) UserEntitiesByType(user TUser, entityType string) map[string]struct{} {
	return s.userEntities[user][entityType]
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) UserHasEntity(user TUser, entityType, entity string) bool {
	_, ok := s.userEntities[user][entityType][entity]
	return ok
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) AddGroupEntity(group TGroup, entityType, entity string) error {
	if e := s.validateEntity(entityType, entity); e != nil {
		return e
	}
	if _, ok := s.groupEntities[group][entityType][entity]; ok {
		return fmt.Errorf("%w: entity mapping: %v -> %s/%s", types.ErrAlreadyExists, group, entityType, entity)
	}

	if s.groupEntities[group] == nil {
		s.groupEntities[group] = make(map[string]map[string]struct{}, 1)
	}
	if s.groupEntities[group][entityType] == nil {
		s.groupEntities[group][entityType] = make(map[string]struct{}, 1)
	}
	s.groupEntities[group][entityType][entity] = struct{}{}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveGroupEntity(group TGroup, entityType, entity string) error {
	if _, ok := s.groupEntities[group][entityType][entity]; !ok {
		return fmt.Errorf("%w: entity mapping: %v -> %s/%s", types.ErrNotFound, group, entityType, entity)
	}

	delete(s.groupEntities[group][entityType], entity)
	if len(s.groupEntities[group][entityType]) == 0 {
		delete(s.groupEntities[group], entityType)
	}
	if len(s.groupEntities[group]) == 0 {
		delete(s.groupEntities, group)
	}
	return nil
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) GroupEntities(group TGroup) []types.TypedEntity {
	return flattenEntities(s.groupEntities[group])
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) GroupEntitiesByType(group TGroup, entityType string) map[string]struct{} {
	return s.groupEntities[group][entityType]
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) GroupHasEntity(group TGroup, entityType, entity string) bool {
	_, ok := s.groupEntities[group][entityType][entity]
	return ok
}

// RemoveUserSubject drops all component and entity mappings held by the user
func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveUserSubject(user TUser) {
	delete(s.userComponents, user)
	delete(s.userEntities, user)
}

// RemoveGroupSubject drops all component and entity mappings held by the group
func (s *Store[TUser, TGroup, TComponent, TAccess]) RemoveGroupSubject(group TGroup) {
	delete(s.groupComponents, group)
	delete(s.groupEntities, group)
}

func (s *Store[TUser, TGroup, TComponent, TAccess]) validateEntity(entityType, entity string) error {
	if _, ok := s.entities[entityType]; !ok {
		return fmt.Errorf("%w: entity type: %s: %w", types.ErrInvalidReference, entityType, types.ErrNotFound)
	}
	if _, ok := s.entities[entityType][entity]; !ok {
		return fmt.Errorf("%w: entity: %s/%s: %w", types.ErrInvalidReference, entityType, entity, types.ErrNotFound)
	}
	return nil
}

func flattenEntities(byType map[string]map[string]struct{}) []types.TypedEntity {
	flat := make([]types.TypedEntity, 0, len(byType))
	for entityType, entities := range byType {
		for entity := range entities {
			flat = append(flat, types.TypedEntity{Type: entityType, Name: entity})
		}
	}
	return flat
}
