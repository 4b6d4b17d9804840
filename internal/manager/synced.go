package manager

import (
	"sync"

	"github.com/supremind/appaccess/types"
)

// synced makes the given access manager safe in concurrent usages: any number of
// queries proceed in parallel, a mutation excludes everything else so its cascade
// observes and leaves a consistent state
type synced[TUser, TGroup, TComponent, TAccess comparable] struct {
	sync.RWMutex
	m types.AccessManager[TUser, TGroup, TComponent, TAccess]
}

var _ types.AccessManager[string, string, string, string] = (*synced[string, string, string, string])(nil)

// NewSynced wraps the manager in a single process-wide reader/writer lock
func NewSynced[TUser, TGroup, TComponent, TAccess comparable](m types.AccessManager[TUser, TGroup, TComponent, TAccess]) types.AccessManager[TUser, TGroup, TComponent, TAccess] {
	return &synced[TUser, TGroup, TComponent, TAccess]{m: m}
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddUser(user TUser) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddUser(user)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) ContainsUser(user TUser) bool {
	s.RLock()
	defer s.RUnlock()
	return s.m.ContainsUser(user)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveUser(user TUser) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveUser(user)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) Users() map[TUser]struct{} {
	s.RLock()
	defer s.RUnlock()
	return s.m.Users()
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddGroup(group TGroup) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddGroup(group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) ContainsGroup(group TGroup) bool {
	s.RLock()
	defer s.RUnlock()
	return s.m.ContainsGroup(group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveGroup(group TGroup) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveGroup(group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) Groups() map[TGroup]struct{} {
	s.RLock()
	defer s.RUnlock()
	return s.m.Groups()
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddUserToGroupMapping(user TUser, group TGroup) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddUserToGroupMapping(user, group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetUserToGroupMappings(user TUser) (map[TGroup]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetUserToGroupMappings(user)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveUserToGroupMapping(user TUser, group TGroup) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveUserToGroupMapping(user, group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddGroupToGroupMapping(fromGroup, toGroup TGroup) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddGroupToGroupMapping(fromGroup, toGroup)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetGroupToGroupMappings(group TGroup) (map[TGroup]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetGroupToGroupMappings(group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveGroupToGroupMapping(fromGroup, toGroup TGroup) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveGroupToGroupMapping(fromGroup, toGroup)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddUserToComponentMapping(user TUser, component TComponent, access TAccess) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddUserToComponentMapping(user, component, access)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetUserToComponentMappings(user TUser) (map[types.ComponentAccess[TComponent, TAccess]]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetUserToComponentMappings(user)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveUserToComponentMapping(user TUser, component TComponent, access TAccess) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveUserToComponentMapping(user, component, access)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddGroupToComponentMapping(group TGroup, component TComponent, access TAccess) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddGroupToComponentMapping(group, component, access)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetGroupToComponentMappings(group TGroup) (map[types.ComponentAccess[TComponent, TAccess]]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetGroupToComponentMappings(group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveGroupToComponentMapping(group TGroup, component TComponent, access TAccess) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveGroupToComponentMapping(group, component, access)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddEntityType(entityType string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddEntityType(entityType)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) ContainsEntityType(entityType string) bool {
	s.RLock()
	defer s.RUnlock()
	return s.m.ContainsEntityType(entityType)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveEntityType(entityType string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveEntityType(entityType)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) EntityTypes() map[string]struct{} {
	s.RLock()
	defer s.RUnlock()
	return s.m.EntityTypes()
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddEntity(entityType, entity string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddEntity(entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) ContainsEntity(entityType, entity string) bool {
	s.RLock()
	defer s.RUnlock()
	return s.m.ContainsEntity(entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveEntity(entityType, entity string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveEntity(entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetEntities(entityType string) (map[string]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetEntities(entityType)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddUserToEntityMapping(user TUser, entityType, entity string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddUserToEntityMapping(user, entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetUserToEntityMappings(user TUser) ([]types.TypedEntity, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetUserToEntityMappings(user)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetUserToEntityMappingsByType(user TUser, entityType string) (map[string]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetUserToEntityMappingsByType(user, entityType)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveUserToEntityMapping(user TUser, entityType, entity string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveUserToEntityMapping(user, entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AddGroupToEntityMapping(group TGroup, entityType, entity string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.AddGroupToEntityMapping(group, entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetGroupToEntityMappings(group TGroup) ([]types.TypedEntity, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetGroupToEntityMappings(group)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GetGroupToEntityMappingsByType(group TGroup, entityType string) (map[string]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GetGroupToEntityMappingsByType(group, entityType)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) RemoveGroupToEntityMapping(group TGroup, entityType, entity string) error {
	s.Lock()
	defer s.Unlock()
	return s.m.RemoveGroupToEntityMapping(group, entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) HasAccessToComponent(user TUser, component TComponent, access TAccess) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.HasAccessToComponent(user, component, access)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GroupHasAccessToComponent(group TGroup, component TComponent, access TAccess) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GroupHasAccessToComponent(group, component, access)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) HasAccessToEntity(user TUser, entityType, entity string) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.HasAccessToEntity(user, entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GroupHasAccessToEntity(group TGroup, entityType, entity string) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GroupHasAccessToEntity(group, entityType, entity)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) AccessibleEntities(user TUser, entityType string) (map[string]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.AccessibleEntities(user, entityType)
}

func (s *synced[TUser, TGroup, TComponent, TAccess]) GroupAccessibleEntities(group TGroup, entityType string) (map[string]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.m.GroupAccessibleEntities(group, entityType)
}
