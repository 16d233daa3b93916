// Package permission models the per-role permission matrix: a mapping from
// section name to action to allowed flag.
//
// The matrix is an allow-list. Any section or action that is absent is denied.
package permission

import (
	"fmt"
	"strings"
)

// Action is one of the four CRUD verbs a matrix can allow within a section.
type Action string

const (
	// Create allows creating new resources in a section.
	Create Action = "create"
	// Read allows reading resources in a section.
	Read Action = "read"
	// Update allows changing existing resources in a section.
	Update Action = "update"
	// Delete allows removing resources in a section.
	Delete Action = "delete"
)

// Actions returns all known actions in their canonical order.
func Actions() []Action {
	return []Action{Create, Read, Update, Delete}
}

// ParseAction maps a wire action name onto an Action. Matching ignores case
// and surrounding whitespace.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}

	return a, nil
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case Create, Read, Update, Delete:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	return string(a)
}
