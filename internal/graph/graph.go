package graph

import (
	"fmt"

	"github.com/supremind/appaccess/types"
)

// Graph is the directed membership graph joining users and groups: an edge means the
// source is a member of the target. Users are leaves with outgoing edges to groups
// only, groups may have outgoing edges to other groups.
//
// Graph is not safe for concurrent use, and its lookup methods return the internal
// maps. Callers own the locking and must copy before handing maps out.
type Graph[TUser, TGroup comparable] struct {
	users  map[TUser]struct{}
	groups map[TGroup]struct{}

	// user => groups it is a direct member of
	userEdges map[TUser]map[TGroup]struct{}
	// group => groups it is a direct member of
	groupEdges map[TGroup]map[TGroup]struct{}
}

func New[TUser, TGroup comparable]() *Graph[TUser, TGroup] {
	return &Graph[TUser, TGroup]{
		users:      make(map[TUser]struct{}),
		groups:     make(map[TGroup]struct{}),
		userEdges:  make(map[TUser]map[TGroup]struct{}),
		groupEdges: make(map[TGroup]map[TGroup]struct{}),
	}
}

func (g *Graph[TUser, TGroup]) AddUser(user TUser) error {
	if _, ok := g.users[user]; ok {
		return fmt.Errorf("%w: user: %v", types.ErrAlreadyExists, user)
	}
	g.users[user] = struct{}{}
	return nil
}

func (g *Graph[TUser, TGroup]) ContainsUser(user TUser) bool {
	_, ok := g.users[user]
	return ok
}

// RemoveUser removes the user and all its membership edges
func (g *Graph[TUser, TGroup]) RemoveUser(user TUser) error {
	if _, ok := g.users[user]; !ok {
		return fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	delete(g.userEdges, user)
	delete(g.users, user)
	return nil
}

func (g *Graph[TUser, TGroup]) Users() map[TUser]struct{} {
	return g.users
}

func (g *Graph[TUser, TGroup]) AddGroup(group TGroup) error {
	if _, ok := g.groups[group]; ok {
		return fmt.Errorf("%w: group: %v", types.ErrAlreadyExists, group)
	}
	g.groups[group] = struct{}{}
	return nil
}

func (g *Graph[TUser, TGroup]) ContainsGroup(group TGroup) bool {
	_, ok := g.groups[group]
	return ok
}

// RemoveGroup removes the group and all membership edges incident to it, incoming
// and outgoing
func (g *Graph[TUser, TGroup]) RemoveGroup(group TGroup) error {
	if _, ok := g.groups[group]; !ok {
		return fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}

	delete(g.groupEdges, group)
	for _, targets := range g.groupEdges {
		delete(targets, group)
	}
	for _, targets := range g.userEdges {
		delete(targets, group)
	}
	delete(g.groups, group)
	return nil
}

func (g *Graph[TUser, TGroup]) Groups() map[TGroup]struct{} {
	return g.groups
}

// AddUserEdge makes the user a direct member of the group
func (g *Graph[TUser, TGroup]) AddUserEdge(user TUser, group TGroup) error {
	if _, ok := g.users[user]; !ok {
		return fmt.Errorf("%w: user: %v: %w", types.ErrInvalidReference, user, types.ErrNotFound)
	}
	if _, ok := g.groups[group]; !ok {
		return fmt.Errorf("%w: group: %v: %w", types.ErrInvalidReference, group, types.ErrNotFound)
	}
	if _, ok := g.userEdges[user][group]; ok {
		return fmt.Errorf("%w: membership: %v -> %v", types.ErrAlreadyExists, user, group)
	}

	if g.userEdges[user] == nil {
		g.userEdges[user] = make(map[TGroup]struct{}, 1)
	}
	g.userEdges[user][group] = struct{}{}
	return nil
}

func (g *Graph[TUser, TGroup]) RemoveUserEdge(user TUser, group TGroup) error {
	if _, ok := g.users[user]; !ok {
		return fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	if _, ok := g.groups[group]; !ok {
		return fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}
	if _, ok := g.userEdges[user][group]; !ok {
		return fmt.Errorf("%w: membership: %v -> %v", types.ErrNotFound, user, group)
	}

	delete(g.userEdges[user], group)
	return nil
}

// DirectGroupsOfUser returns the groups the user is a direct member of
func (g *Graph[TUser, TGroup]) DirectGroupsOfUser(user TUser) (map[TGroup]struct{}, error) {
	if _, ok := g.users[user]; !ok {
		return nil, fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}
	return g.userEdges[user], nil
}

// AddGroupEdge makes fromGroup a direct member of toGroup. An edge which would close
// a cycle through the existing group memberships is rejected.
func (g *Graph[TUser, TGroup]) AddGroupEdge(fromGroup, toGroup TGroup) error {
	if _, ok := g.groups[fromGroup]; !ok {
		return fmt.Errorf("%w: group: %v: %w", types.ErrInvalidReference, fromGroup, types.ErrNotFound)
	}
	if _, ok := g.groups[toGroup]; !ok {
		return fmt.Errorf("%w: group: %v: %w", types.ErrInvalidReference, toGroup, types.ErrNotFound)
	}
	if fromGroup == toGroup {
		return fmt.Errorf("%w: group %v cannot be a member of itself", types.ErrInvalidReference, fromGroup)
	}
	if _, ok := g.groupEdges[fromGroup][toGroup]; ok {
		return fmt.Errorf("%w: membership: %v -> %v", types.ErrAlreadyExists, fromGroup, toGroup)
	}

	cyclic := false
	g.traverse(toGroup, make(map[TGroup]struct{}), func(group TGroup) bool {
		if group == fromGroup {
			cyclic = true
			return false
		}
		return true
	})
	if cyclic {
		return fmt.Errorf("%w: membership %v -> %v", types.ErrCircularReference, fromGroup, toGroup)
	}

	if g.groupEdges[fromGroup] == nil {
		g.groupEdges[fromGroup] = make(map[TGroup]struct{}, 1)
	}
	g.groupEdges[fromGroup][toGroup] = struct{}{}
	return nil
}

func (g *Graph[TUser, TGroup]) RemoveGroupEdge(fromGroup, toGroup TGroup) error {
	if _, ok := g.groups[fromGroup]; !ok {
		return fmt.Errorf("%w: group: %v", types.ErrNotFound, fromGroup)
	}
	if _, ok := g.groups[toGroup]; !ok {
		return fmt.Errorf("%w: group: %v", types.ErrNotFound, toGroup)
	}
	if _, ok := g.groupEdges[fromGroup][toGroup]; !ok {
		return fmt.Errorf("%w: membership: %v -> %v", types.ErrNotFound, fromGroup, toGroup)
	}

	delete(g.groupEdges[fromGroup], toGroup)
	return nil
}

// DirectGroupsOfGroup returns the groups the group is a direct member of
func (g *Graph[TUser, TGroup]) DirectGroupsOfGroup(group TGroup) (map[TGroup]struct{}, error) {
	if _, ok := g.groups[group]; !ok {
		return nil, fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}
	return g.groupEdges[group], nil
}

// TraverseFromUser walks depth first from the user along membership edges, invoking
// visit on every reachable group exactly once, in no particular order. Traversal
// stops early when visit returns false.
func (g *Graph[TUser, TGroup]) TraverseFromUser(user TUser, visit func(group TGroup) bool) error {
	if _, ok := g.users[user]; !ok {
		return fmt.Errorf("%w: user: %v", types.ErrNotFound, user)
	}

	visited := make(map[TGroup]struct{})
	for group := range g.userEdges[user] {
		if !g.traverse(group, visited, visit) {
			break
		}
	}
	return nil
}

// TraverseFromGroup is like TraverseFromUser but seeded at a group; the seed itself
// is visited first.
func (g *Graph[TUser, TGroup]) TraverseFromGroup(group TGroup, visit func(group TGroup) bool) error {
	if _, ok := g.groups[group]; !ok {
		return fmt.Errorf("%w: group: %v", types.ErrNotFound, group)
	}

	g.traverse(group, make(map[TGroup]struct{}), visit)
	return nil
}

// traverse reports whether traversal should keep going. The visited set keeps a
// group reached over several paths from being descended into twice, and bounds the
// walk even if the edge set were cyclic.
func (g *Graph[TUser, TGroup]) traverse(group TGroup, visited map[TGroup]struct{}, visit func(group TGroup) bool) bool {
	if _, ok := visited[group]; ok {
		return true
	}
	visited[group] = struct{}{}

	if !visit(group) {
		return false
	}
	for next := range g.groupEdges[group] {
		if !g.traverse(next, visited, visit) {
			return false
		}
	}
	return true
}
