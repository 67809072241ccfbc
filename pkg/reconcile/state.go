// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package reconcile

// State is the desired state of a resource
type State string

const (
	StateQuery   State = "query"
	StatePresent State = "present"
	StateAbsent  State = "absent"

	// StateStatus is an alias of StateQuery
	StateStatus State = "status"
)

// ParseState maps user input to a State. Unknown values are returned as-is and
// rejected by the reconciler with an "Invalid module state" result.
func ParseState(s string) State {
	state := State(s)
	if state == StateStatus {
		return StateQuery
	}
	return state
}

// Valid reports whether the state is one the reconciler handles
func (s State) Valid() bool {
	switch s {
	case StateQuery, StatePresent, StateAbsent, StateStatus:
		return true
	}
	return false
}
