// Package serializer converts the full state of an access manager to and from a
// JSON document. It is not a storage layer: it walks the public read surface on the
// way out, and rebuilds a fresh manager through the public mutation methods on the
// way back in, so every invariant of the manager holds for a deserialized one.
package serializer

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/supremind/appaccess"
	"github.com/supremind/appaccess/types"
)

// documentVersion guards the layout below; bump it on incompatible changes
const documentVersion = 1

type document struct {
	Version             int              `json:"version"`
	Users               []string         `json:"users"`
	Groups              []string         `json:"groups"`
	UserToGroupMap      []memberOf       `json:"userToGroupMap"`
	GroupToGroupMap     []memberOf       `json:"groupToGroupMap"`
	UserToComponentMap  []componentGrant `json:"userToComponentMap"`
	GroupToComponentMap []componentGrant `json:"groupToComponentMap"`
	Entities            []entitySet      `json:"entities"`
	UserToEntityMap     []entityGrant    `json:"userToEntityMap"`
	GroupToEntityMap    []entityGrant    `json:"groupToEntityMap"`
}

type memberOf struct {
	Member string `json:"member"`
	Group  string `json:"group"`
}

type componentGrant struct {
	Subject   string `json:"subject"`
	Component string `json:"component"`
	Access    string `json:"access"`
}

type entitySet struct {
	Type     string   `json:"type"`
	Entities []string `json:"entities"`
}

type entityGrant struct {
	Subject string `json:"subject"`
	Type    string `json:"type"`
	Entity  string `json:"entity"`
}

// Serialize writes the manager's full state as a JSON document. The output is
// deterministic: every list is sorted.
func Serialize[TUser, TGroup, TComponent, TAccess comparable](
	m types.AccessManager[TUser, TGroup, TComponent, TAccess],
	users UniqueStringifier[TUser],
	groups UniqueStringifier[TGroup],
	components UniqueStringifier[TComponent],
	accessLevels UniqueStringifier[TAccess],
) ([]byte, error) {
	doc := document{Version: documentVersion}

	for user := range m.Users() {
		u, e := users.ToString(user)
		if e != nil {
			return nil, fmt.Errorf("stringify user %v: %w", user, e)
		}
		doc.Users = append(doc.Users, u)

		memberships, e := m.GetUserToGroupMappings(user)
		if e != nil {
			return nil, e
		}
		for group := range memberships {
			g, e := groups.ToString(group)
			if e != nil {
				return nil, fmt.Errorf("stringify group %v: %w", group, e)
			}
			doc.UserToGroupMap = append(doc.UserToGroupMap, memberOf{Member: u, Group: g})
		}

		grants, e := m.GetUserToComponentMappings(user)
		if e != nil {
			return nil, e
		}
		userComponents, e := stringifyGrants(u, grants, components, accessLevels)
		if e != nil {
			return nil, e
		}
		doc.UserToComponentMap = append(doc.UserToComponentMap, userComponents...)

		entities, e := m.GetUserToEntityMappings(user)
		if e != nil {
			return nil, e
		}
		for _, ent := range entities {
			doc.UserToEntityMap = append(doc.UserToEntityMap, entityGrant{Subject: u, Type: ent.Type, Entity: ent.Name})
		}
	}

	for group := range m.Groups() {
		g, e := groups.ToString(group)
		if e != nil {
			return nil, fmt.Errorf("stringify group %v: %w", group, e)
		}
		doc.Groups = append(doc.Groups, g)

		memberships, e := m.GetGroupToGroupMappings(group)
		if e != nil {
			return nil, e
		}
		for target := range memberships {
			t, e := groups.ToString(target)
			if e != nil {
				return nil, fmt.Errorf("stringify group %v: %w", target, e)
			}
			doc.GroupToGroupMap = append(doc.GroupToGroupMap, memberOf{Member: g, Group: t})
		}

		grants, e := m.GetGroupToComponentMappings(group)
		if e != nil {
			return nil, e
		}
		groupComponents, e := stringifyGrants(g, grants, components, accessLevels)
		if e != nil {
			return nil, e
		}
		doc.GroupToComponentMap = append(doc.GroupToComponentMap, groupComponents...)

		entities, e := m.GetGroupToEntityMappings(group)
		if e != nil {
			return nil, e
		}
		for _, ent := range entities {
			doc.GroupToEntityMap = append(doc.GroupToEntityMap, entityGrant{Subject: g, Type: ent.Type, Entity: ent.Name})
		}
	}

	for entityType := range m.EntityTypes() {
		entities, e := m.GetEntities(entityType)
		if e != nil {
			return nil, e
		}
		set := entitySet{Type: entityType}
		for entity := range entities {
			set.Entities = append(set.Entities, entity)
		}
		sort.Strings(set.Entities)
		doc.Entities = append(doc.Entities, set)
	}

	sortDocument(&doc)
	return json.MarshalIndent(doc, "", "  ")
}

// Deserialize rebuilds an access manager from a document produced by Serialize
func Deserialize[TUser, TGroup, TComponent, TAccess comparable](
	data []byte,
	users UniqueStringifier[TUser],
	groups UniqueStringifier[TGroup],
	components UniqueStringifier[TComponent],
	accessLevels UniqueStringifier[TAccess],
	opts ...appaccess.Option,
) (types.AccessManager[TUser, TGroup, TComponent, TAccess], error) {
	var doc document
	if e := json.Unmarshal(data, &doc); e != nil {
		return nil, fmt.Errorf("unmarshal access document: %w", e)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported access document version %d, want %d", doc.Version, documentVersion)
	}

	m := appaccess.New[TUser, TGroup, TComponent, TAccess](opts...)

	for _, u := range doc.Users {
		user, e := users.FromString(u)
		if e != nil {
			return nil, fmt.Errorf("parse user %q: %w", u, e)
		}
		if e := m.AddUser(user); e != nil {
			return nil, e
		}
	}
	for _, g := range doc.Groups {
		group, e := groups.FromString(g)
		if e != nil {
			return nil, fmt.Errorf("parse group %q: %w", g, e)
		}
		if e := m.AddGroup(group); e != nil {
			return nil, e
		}
	}

	for _, edge := range doc.UserToGroupMap {
		user, e := users.FromString(edge.Member)
		if e != nil {
			return nil, fmt.Errorf("parse user %q: %w", edge.Member, e)
		}
		group, e := groups.FromString(edge.Group)
		if e != nil {
			return nil, fmt.Errorf("parse group %q: %w", edge.Group, e)
		}
		if e := m.AddUserToGroupMapping(user, group); e != nil {
			return nil, e
		}
	}
	for _, edge := range doc.GroupToGroupMap {
		fromGroup, e := groups.FromString(edge.Member)
		if e != nil {
			return nil, fmt.Errorf("parse group %q: %w", edge.Member, e)
		}
		toGroup, e := groups.FromString(edge.Group)
		if e != nil {
			return nil, fmt.Errorf("parse group %q: %w", edge.Group, e)
		}
		if e := m.AddGroupToGroupMapping(fromGroup, toGroup); e != nil {
			return nil, e
		}
	}

	for _, grant := range doc.UserToComponentMap {
		user, e := users.FromString(grant.Subject)
		if e != nil {
			return nil, fmt.Errorf("parse user %q: %w", grant.Subject, e)
		}
		component, access, e := parseGrant(grant, components, accessLevels)
		if e != nil {
			return nil, e
		}
		if e := m.AddUserToComponentMapping(user, component, access); e != nil {
			return nil, e
		}
	}
	for _, grant := range doc.GroupToComponentMap {
		group, e := groups.FromString(grant.Subject)
		if e != nil {
			return nil, fmt.Errorf("parse group %q: %w", grant.Subject, e)
		}
		component, access, e := parseGrant(grant, components, accessLevels)
		if e != nil {
			return nil, e
		}
		if e := m.AddGroupToComponentMapping(group, component, access); e != nil {
			return nil, e
		}
	}

	for _, set := range doc.Entities {
		if e := m.AddEntityType(set.Type); e != nil {
			return nil, e
		}
		for _, entity := range set.Entities {
			if e := m.AddEntity(set.Type, entity); e != nil {
				return nil, e
			}
		}
	}
	for _, grant := range doc.UserToEntityMap {
		user, e := users.FromString(grant.Subject)
		if e != nil {
			return nil, fmt.Errorf("parse user %q: %w", grant.Subject, e)
		}
		if e := m.AddUserToEntityMapping(user, grant.Type, grant.Entity); e != nil {
			return nil, e
		}
	}
	for _, grant := range doc.GroupToEntityMap {
		group, e := groups.FromString(grant.Subject)
		if e != nil {
			return nil, fmt.Errorf("parse group %q: %w", grant.Subject, e)
		}
		if e := m.AddGroupToEntityMapping(group, grant.Type, grant.Entity); e != nil {
			return nil, e
		}
	}

	return m, nil
}

func stringifyGrants[TComponent, TAccess comparable](
	subject string,
	grants map[types.ComponentAccess[TComponent, TAccess]]struct{},
	components UniqueStringifier[TComponent],
	accessLevels UniqueStringifier[TAccess],
) ([]componentGrant, error) {
	out := make([]componentGrant, 0, len(grants))
	for ca := range grants {
		c, e := components.ToString(ca.Component)
		if e != nil {
			return nil, fmt.Errorf("stringify component %v: %w", ca.Component, e)
		}
		a, e := accessLevels.ToString(ca.Access)
		if e != nil {
			return nil, fmt.Errorf("stringify access level %v: %w", ca.Access, e)
		}
		out = append(out, componentGrant{Subject: subject, Component: c, Access: a})
	}
	return out, nil
}

func parseGrant[TComponent, TAccess comparable](
	grant componentGrant,
	components UniqueStringifier[TComponent],
	accessLevels UniqueStringifier[TAccess],
) (TComponent, TAccess, error) {
	component, e := components.FromString(grant.Component)
	if e != nil {
		var access TAccess
		return component, access, fmt.Errorf("parse component %q: %w", grant.Component, e)
	}
	access, e := accessLevels.FromString(grant.Access)
	if e != nil {
		return component, access, fmt.Errorf("parse access level %q: %w", grant.Access, e)
	}
	return component, access, nil
}

func sortDocument(doc *document) {
	sort.Strings(doc.Users)
	sort.Strings(doc.Groups)
	sortMemberships(doc.UserToGroupMap)
	sortMemberships(doc.GroupToGroupMap)
	sortComponentGrants(doc.UserToComponentMap)
	sortComponentGrants(doc.GroupToComponentMap)
	sort.Slice(doc.Entities, func(i, j int) bool { return doc.Entities[i].Type < doc.Entities[j].Type })
	sortEntityGrants(doc.UserToEntityMap)
	sortEntityGrants(doc.GroupToEntityMap)
}

func sortMemberships(edges []memberOf) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Member != edges[j].Member {
			return edges[i].Member < edges[j].Member
		}
		return edges[i].Group < edges[j].Group
	})
}

func sortComponentGrants(grants []componentGrant) {
	sort.Slice(grants, func(i, j int) bool {
		if grants[i].Subject != grants[j].Subject {
			return grants[i].Subject < grants[j].Subject
		}
		if grants[i].Component != grants[j].Component {
			return grants[i].Component < grants[j].Component
		}
		return grants[i].Access < grants[j].Access
	})
}

func sortEntityGrants(grants []entityGrant) {
	sort.Slice(grants, func(i, j int) bool {
		if grants[i].Subject != grants[j].Subject {
			return grants[i].Subject < grants[j].Subject
		}
		if grants[i].Type != grants[j].Type {
			return grants[i].Type < grants[j].Type
		}
		return grants[i].Entity < grants[j].Entity
	})
}
