package serializer

// UniqueStringifier converts values of a caller-chosen key type to and from strings
// which uniquely identify them. One is needed per type parameter of the access
// manager being serialized: the JSON document only ever carries strings.
type UniqueStringifier[T any] interface {
	// ToString converts a value into a string which uniquely identifies it
	ToString(value T) (string, error)

	// FromString converts a string produced by ToString back into the value
	FromString(s string) (T, error)
}

// StringStringifier is the identity UniqueStringifier for string-keyed managers
type StringStringifier struct{}

var _ UniqueStringifier[string] = StringStringifier{}

func (StringStringifier) ToString(value string) (string, error) { return value, nil }

func (StringStringifier) FromString(s string) (string, error) { return s, nil }
