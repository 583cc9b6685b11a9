package store

import (
	"fmt"
	"strings"
)

// Lifetime controls when a Bag is destroyed. It is fixed when the bag is
// created.
type Lifetime int

const (
	// DeleteByCommand keeps the bag until Remove is called.
	// It is the zero value and the broker default.
	DeleteByCommand Lifetime = iota

	// DeleteAfterUse destroys the bag after the first successful Read.
	DeleteAfterUse

	// DoNotDelete keeps the bag until the store is cleared.
	DoNotDelete
)

// String returns the snake_case name used in config files and logs.
func (l Lifetime) String() string {
	switch l {
	case DeleteByCommand:
		return "delete_by_command"
	case DeleteAfterUse:
		return "delete_after_use"
	case DoNotDelete:
		return "do_not_delete"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// Valid reports whether l is one of the defined lifetimes.
func (l Lifetime) Valid() bool {
	return l >= DeleteByCommand && l <= DoNotDelete
}

// ParseLifetime maps a name back to a Lifetime. Matching ignores case and
// accepts dashes in place of underscores.
func ParseLifetime(s string) (Lifetime, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case "delete_by_command", "":
		return DeleteByCommand, nil
	case "delete_after_use":
		return DeleteAfterUse, nil
	case "do_not_delete":
		return DoNotDelete, nil
	}
	return DeleteByCommand, fmt.Errorf("unknown lifetime %q", s)
}
