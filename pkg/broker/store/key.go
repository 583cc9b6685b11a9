package store

import (
	"fmt"
	"reflect"
	"strconv"
)

// InvocationID identifies one act of publishing.
type InvocationID uint64

// NoInvocation is never allocated to a publish.
const NoInvocation InvocationID = 0

// String renders the identifier in decimal.
func (id InvocationID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Key addresses one value inside a Bag.
type Key struct {
	Type reflect.Type
	Tag  string
}

// KeyFor returns the key for the static type T.
func KeyFor[T any](tag string) Key {
	return Key{Type: reflect.TypeFor[T](), Tag: tag}
}

// String renders the key as type[tag].
func (k Key) String() string {
	return fmt.Sprintf("%s[%q]", typeName(k.Type), k.Tag)
}

// TypeOf returns the runtime type of v used as a Key type.
// A nil interface yields nil.
func TypeOf(v any) reflect.Type {
	return reflect.TypeOf(v)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
