package graph_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/supremind/appaccess/internal/graph"
	"github.com/supremind/appaccess/types"
)

var _ = Describe("membership graph", func() {
	var g *Graph[string, string]

	BeforeEach(func() {
		g = New[string, string]()

		for _, user := range []string{"mae", "livia", "seb"} {
			Expect(g.AddUser(user)).To(Succeed())
		}
		for _, group := range []string{"Sales", "SalesManagers", "Managers", "AllStaff"} {
			Expect(g.AddGroup(group)).To(Succeed())
		}
	})

	Describe("adding and removing nodes", func() {
		It("should know its users and groups", func() {
			Expect(g.Users()).To(haveExactKeys("mae", "livia", "seb"))
			Expect(g.Groups()).To(haveExactKeys("Sales", "SalesManagers", "Managers", "AllStaff"))
		})

		It("should reject a duplicated user", func() {
			Expect(g.AddUser("mae")).To(MatchError(types.ErrAlreadyExists))
		})

		It("should reject a duplicated group", func() {
			Expect(g.AddGroup("Sales")).To(MatchError(types.ErrAlreadyExists))
		})

		It("should not remove an unknown user", func() {
			Expect(g.RemoveUser("nobody")).To(MatchError(types.ErrNotFound))
		})

		It("should not remove an unknown group", func() {
			Expect(g.RemoveGroup("Nowhere")).To(MatchError(types.ErrNotFound))
		})

		It("should not remove a user twice", func() {
			Expect(g.RemoveUser("seb")).To(Succeed())
			Expect(g.RemoveUser("seb")).To(MatchError(types.ErrNotFound))
		})
	})

	Describe("user to group edges", func() {
		BeforeEach(func() {
			Expect(g.AddUserEdge("mae", "Sales")).To(Succeed())
		})

		It("should know direct groups of a user", func() {
			Expect(g.DirectGroupsOfUser("mae")).To(haveExactKeys("Sales"))
		})

		It("should reject a duplicated edge", func() {
			Expect(g.AddUserEdge("mae", "Sales")).To(MatchError(types.ErrAlreadyExists))
		})

		It("should reject an unknown user endpoint", func() {
			e := g.AddUserEdge("nobody", "Sales")
			Expect(e).To(MatchError(types.ErrInvalidReference))
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should reject an unknown group endpoint", func() {
			e := g.AddUserEdge("mae", "Nowhere")
			Expect(e).To(MatchError(types.ErrInvalidReference))
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should remove an edge once", func() {
			Expect(g.RemoveUserEdge("mae", "Sales")).To(Succeed())
			Expect(g.DirectGroupsOfUser("mae")).To(BeEmpty())
			Expect(g.RemoveUserEdge("mae", "Sales")).To(MatchError(types.ErrNotFound))
		})

		It("should drop incident edges when the user goes away", func() {
			Expect(g.RemoveUser("mae")).To(Succeed())
			Expect(g.AddUser("mae")).To(Succeed())
			Expect(g.DirectGroupsOfUser("mae")).To(BeEmpty())
		})

		It("should drop incident edges when the group goes away", func() {
			Expect(g.RemoveGroup("Sales")).To(Succeed())
			Expect(g.DirectGroupsOfUser("mae")).To(BeEmpty())
		})
	})

	Describe("group to group edges", func() {
		BeforeEach(func() {
			Expect(g.AddGroupEdge("SalesManagers", "Sales")).To(Succeed())
			Expect(g.AddGroupEdge("Sales", "AllStaff")).To(Succeed())
		})

		It("should know direct groups of a group", func() {
			Expect(g.DirectGroupsOfGroup("SalesManagers")).To(haveExactKeys("Sales"))
			Expect(g.DirectGroupsOfGroup("Sales")).To(haveExactKeys("AllStaff"))
		})

		It("should reject a duplicated edge", func() {
			Expect(g.AddGroupEdge("Sales", "AllStaff")).To(MatchError(types.ErrAlreadyExists))
		})

		It("should reject a self loop", func() {
			Expect(g.AddGroupEdge("Sales", "Sales")).To(MatchError(types.ErrInvalidReference))
		})

		It("should reject an edge closing a cycle", func() {
			Expect(g.AddGroupEdge("AllStaff", "SalesManagers")).To(MatchError(types.ErrCircularReference))
			Expect(g.AddGroupEdge("AllStaff", "Sales")).To(MatchError(types.ErrCircularReference))
		})

		It("should still accept a diamond", func() {
			Expect(g.AddGroupEdge("SalesManagers", "Managers")).To(Succeed())
			Expect(g.AddGroupEdge("Managers", "AllStaff")).To(Succeed())
		})

		It("should drop incident edges when a middle group goes away", func() {
			Expect(g.RemoveGroup("Sales")).To(Succeed())
			Expect(g.DirectGroupsOfGroup("SalesManagers")).To(BeEmpty())
			Expect(g.AddGroup("Sales")).To(Succeed())
			Expect(g.DirectGroupsOfGroup("Sales")).To(BeEmpty())
		})
	})

	Describe("traversal", func() {
		BeforeEach(func() {
			Expect(g.AddUserEdge("mae", "SalesManagers")).To(Succeed())
			Expect(g.AddGroupEdge("SalesManagers", "Sales")).To(Succeed())
			Expect(g.AddGroupEdge("SalesManagers", "Managers")).To(Succeed())
			Expect(g.AddGroupEdge("Sales", "AllStaff")).To(Succeed())
			Expect(g.AddGroupEdge("Managers", "AllStaff")).To(Succeed())
		})

		It("should visit every reachable group exactly once", func() {
			visits := make(map[string]int)
			Expect(g.TraverseFromUser("mae", func(group string) bool {
				visits[group]++
				return true
			})).To(Succeed())

			Expect(visits).To(haveExactKeys("SalesManagers", "Sales", "Managers", "AllStaff"))
			for group, n := range visits {
				Expect(n).To(Equal(1), "group %s visited %d times", group, n)
			}
		})

		It("should visit the seed group first when starting from a group", func() {
			var order []string
			Expect(g.TraverseFromGroup("SalesManagers", func(group string) bool {
				order = append(order, group)
				return true
			})).To(Succeed())

			Expect(order).To(HaveLen(4))
			Expect(order[0]).To(Equal("SalesManagers"))
		})

		It("should not reach groups of other users", func() {
			Expect(g.TraverseFromUser("livia", func(group string) bool {
				Fail("unexpected visit to " + group)
				return true
			})).To(Succeed())
		})

		It("should stop early when the visitor says so", func() {
			visited := 0
			Expect(g.TraverseFromUser("mae", func(group string) bool {
				visited++
				return false
			})).To(Succeed())
			Expect(visited).To(Equal(1))
		})

		DescribeTable("should fail on an unknown start",
			func(traverse func() error) {
				Expect(traverse()).To(MatchError(types.ErrNotFound))
			},
			Entry("unknown user", func() error {
				return g.TraverseFromUser("nobody", func(string) bool { return true })
			}),
			Entry("unknown group", func() error {
				return g.TraverseFromGroup("Nowhere", func(string) bool { return true })
			}),
		)
	})
})
