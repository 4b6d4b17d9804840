package types

// ComponentAccess is an application component paired with a level of access to it
type ComponentAccess[TComponent, TAccess comparable] struct {
	Component TComponent
	Access    TAccess
}

// TypedEntity is an entity name qualified by its entity type
type TypedEntity struct {
	Type string
	Name string
}
