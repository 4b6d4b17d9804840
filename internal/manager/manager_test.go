package manager_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/supremind/appaccess/internal/testdata"
	"github.com/supremind/appaccess/types"
)

var _ = Describe("access manager", func() {
	var m types.AccessManager[string, string, ApplicationScreen, AccessLevel]

	BeforeEach(func() {
		var e error
		m, e = Build()
		Expect(e).To(Succeed())
	})

	Describe("component access", func() {
		DescribeTable("through the team hierarchy",
			func(user string, screen ApplicationScreen, access AccessLevel, expected bool) {
				Expect(m.HasAccessToComponent(user, screen, access)).To(Equal(expected))
			},
			Entry("sales manager reaches her own team's screen", "mae", ProductsSetup, Modify, true),
			Entry("sales manager inherits the sales screens", "mae", Order, Modify, true),
			Entry("sales manager inherits the all staff screens", "mae", OrderSummary, View, true),
			Entry("sales person cannot set up products", "livia", ProductsSetup, Modify, false),
			Entry("sales person modifies orders", "arjan", Order, Modify, true),
			Entry("it modifies system settings", "seb", SystemSettings, Modify, true),
			Entry("customer service cannot touch system settings", "deborah", SystemSettings, Modify, false),
			Entry("the access level must match exactly", "livia", Order, Delete, false),
			Entry("everyone views the order summary", "bo", OrderSummary, View, true),
		)

		DescribeTable("seeded at a group",
			func(group string, screen ApplicationScreen, access AccessLevel, expected bool) {
				Expect(m.GroupHasAccessToComponent(group, screen, access)).To(Equal(expected))
			},
			Entry("a group reaches its own grants", "IT", SystemSettings, Modify, true),
			Entry("a group inherits from groups it is in", "SalesManagers", Order, Modify, true),
			Entry("inheritance does not run downhill", "AllStaff", Order, Modify, false),
		)

		It("should see a direct user grant without traversing", func() {
			Expect(m.AddUserToComponentMapping("deborah", SystemSettings, View)).To(Succeed())
			Expect(m.HasAccessToComponent("deborah", SystemSettings, View)).To(BeTrue())
			Expect(m.HasAccessToComponent("kishan", SystemSettings, View)).To(BeFalse())
		})
	})

	Describe("entity access", func() {
		DescribeTable("through direct user grants",
			func(user, entityType, entity string, expected bool) {
				Expect(m.HasAccessToEntity(user, entityType, entity)).To(Equal(expected))
			},
			Entry("frankie works the weaving machines", "frankie", "Products", "WeavingMachines", true),
			Entry("arjan does not", "arjan", "Products", "WeavingMachines", false),
			Entry("kishan handles company c", "kishan", "Clients", "CompanyC", true),
			Entry("deborah does not", "deborah", "Clients", "CompanyC", false),
		)

		It("should fail on an unknown entity", func() {
			_, e := m.HasAccessToEntity("frankie", "Products", "SewingMachines")
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.HasAccessToEntity("frankie", "Machines", "WeavingMachines")
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should reach entities granted to a group", func() {
			Expect(m.AddGroupToEntityMapping("Sales", "Clients", "CompanyA")).To(Succeed())

			Expect(m.HasAccessToEntity("livia", "Clients", "CompanyA")).To(BeTrue())
			Expect(m.HasAccessToEntity("mae", "Clients", "CompanyA")).To(BeTrue(), "mae is a sales manager, sales managers are sales people")
			Expect(m.HasAccessToEntity("seb", "Clients", "CompanyA")).To(BeFalse())

			Expect(m.GroupHasAccessToEntity("SalesManagers", "Clients", "CompanyA")).To(BeTrue())
			Expect(m.GroupHasAccessToEntity("IT", "Clients", "CompanyA")).To(BeFalse())
		})
	})

	Describe("accessible entities", func() {
		DescribeTable("unions user and group grants",
			func(user, entityType string, expected []interface{}) {
				Expect(m.AccessibleEntities(user, entityType)).To(haveExactKeys(expected...))
			},
			Entry("kishan sees every client", "kishan", "Clients", []interface{}{"CompanyA", "CompanyB", "CompanyC"}),
			Entry("deborah sees two clients", "deborah", "Clients", []interface{}{"CompanyA", "CompanyB"}),
			Entry("mae sees the weaving machines", "mae", "Products", []interface{}{"WeavingMachines"}),
			Entry("seb sees no clients", "seb", "Clients", []interface{}{}),
		)

		It("should count an entity reachable over two paths once", func() {
			Expect(m.AddGroupToEntityMapping("Sales", "Clients", "CompanyA")).To(Succeed())
			Expect(m.AddGroupToEntityMapping("AllStaff", "Clients", "CompanyA")).To(Succeed())

			Expect(m.AccessibleEntities("mae", "Clients")).To(haveExactKeys("CompanyA"))
			Expect(m.GroupAccessibleEntities("SalesManagers", "Clients")).To(haveExactKeys("CompanyA"))
		})

		It("should not see grants of unrelated groups from a group seed", func() {
			Expect(m.AddGroupToEntityMapping("CustomerService", "Clients", "CompanyB")).To(Succeed())
			Expect(m.GroupAccessibleEntities("IT", "Clients")).To(BeEmpty())
			Expect(m.GroupAccessibleEntities("CustomerService", "Clients")).To(haveExactKeys("CompanyB"))
		})
	})

	Describe("unknown subjects", func() {
		It("should fail every query", func() {
			_, e := m.HasAccessToComponent("nobody", Order, View)
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.GroupHasAccessToComponent("Nowhere", Order, View)
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.HasAccessToEntity("nobody", "Clients", "CompanyA")
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.AccessibleEntities("nobody", "Clients")
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.GroupAccessibleEntities("Nowhere", "Clients")
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should fail every lookup", func() {
			_, e := m.GetUserToGroupMappings("nobody")
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.GetGroupToComponentMappings("Nowhere")
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.GetUserToEntityMappings("nobody")
			Expect(e).To(MatchError(types.ErrNotFound))

			_, e = m.GetUserToEntityMappingsByType("kishan", "Machines")
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should reject mappings to subjects never added", func() {
			e := m.AddUserToComponentMapping("nobody", Order, View)
			Expect(e).To(MatchError(types.ErrInvalidReference))
			Expect(e).To(MatchError(types.ErrNotFound))

			e = m.AddGroupToEntityMapping("Nowhere", "Clients", "CompanyA")
			Expect(e).To(MatchError(types.ErrInvalidReference))
			Expect(e).To(MatchError(types.ErrNotFound))
		})
	})

	Describe("removing a user", func() {
		BeforeEach(func() {
			Expect(m.RemoveUser("kishan")).To(Succeed())
		})

		It("should forget the user", func() {
			Expect(m.ContainsUser("kishan")).To(BeFalse())
			Expect(m.Users()).NotTo(HaveKey("kishan"))
			Expect(m.RemoveUser("kishan")).To(MatchError(types.ErrNotFound))
		})

		It("should fail queries about the user", func() {
			_, e := m.HasAccessToComponent("kishan", ClientInteractions, Modify)
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should not leak mappings into a recreated user", func() {
			Expect(m.AddUser("kishan")).To(Succeed())
			Expect(m.GetUserToGroupMappings("kishan")).To(BeEmpty())
			Expect(m.GetUserToEntityMappings("kishan")).To(BeEmpty())
			Expect(m.AccessibleEntities("kishan", "Clients")).To(BeEmpty())
		})
	})

	Describe("removing a group", func() {
		BeforeEach(func() {
			Expect(m.RemoveGroup("AllStaff")).To(Succeed())
		})

		It("should cut off access inherited through it", func() {
			Expect(m.HasAccessToComponent("seb", OrderSummary, View)).To(BeFalse())
			Expect(m.HasAccessToComponent("seb", SystemSettings, Modify)).To(BeTrue())
		})

		It("should drop its membership edges", func() {
			Expect(m.GetGroupToGroupMappings("Sales")).To(BeEmpty())
			e := m.AddGroupToGroupMapping("Sales", "AllStaff")
			Expect(e).To(MatchError(types.ErrInvalidReference))
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should not leak mappings into a recreated group", func() {
			Expect(m.AddGroup("AllStaff")).To(Succeed())
			Expect(m.GetGroupToComponentMappings("AllStaff")).To(BeEmpty())
			Expect(m.HasAccessToComponent("seb", OrderSummary, View)).To(BeFalse())
		})
	})

	Describe("removing entities", func() {
		It("should shrink what a user can reach", func() {
			Expect(m.RemoveEntity("Clients", "CompanyC")).To(Succeed())
			Expect(m.AccessibleEntities("kishan", "Clients")).To(haveExactKeys("CompanyA", "CompanyB"))
		})

		It("should empty out a removed entity type everywhere", func() {
			Expect(m.RemoveEntityType("Clients")).To(Succeed())

			Expect(m.EntityTypes()).To(haveExactKeys("Products"))
			Expect(m.AccessibleEntities("kishan", "Clients")).To(BeEmpty())
			Expect(m.GetUserToEntityMappings("kishan")).To(BeEmpty())

			_, e := m.HasAccessToEntity("kishan", "Clients", "CompanyA")
			Expect(e).To(MatchError(types.ErrNotFound))
		})
	})

	Describe("group cycles", func() {
		It("should reject an edge closing a loop", func() {
			Expect(m.AddGroupToGroupMapping("AllStaff", "SalesManagers")).To(MatchError(types.ErrCircularReference))
			Expect(m.AddGroupToGroupMapping("Sales", "Sales")).To(MatchError(types.ErrInvalidReference))
		})
	})
})
