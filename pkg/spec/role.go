package spec

import (
	"fmt"
	"reflect"
	"sync"
)

// Role classifies a specification member by the lifecycle phase it plays.
type Role int

const (
	// Setup members establish the context. One per level, run base-first.
	Setup Role = iota + 1
	// Action is the behavior under test. The most-derived one runs.
	Action
	// Assertion members are reported as independent test cases.
	Assertion
	// Cleanup members run once at teardown. Faults are logged, never propagated.
	Cleanup
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case Setup:
		return "Setup"
	case Action:
		return "Action"
	case Assertion:
		return "Assertion"
	case Cleanup:
		return "Cleanup"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Establish marks a field as the Setup step of its level.
type Establish func()

// Because marks a field as the Action step.
type Because func()

// It marks a field as an Assertion.
type It func()

// Cleanup marks a field as the Cleanup step of its level.
type Cleanup func()

// roles maps a declared field type to the role it carries.
// The four built-in types are always present.
var roles = struct {
	mu    sync.RWMutex
	types map[reflect.Type]Role
}{
	types: map[reflect.Type]Role{
		reflect.TypeFor[Establish](): Setup,
		reflect.TypeFor[Because]():   Action,
		reflect.TypeFor[It]():        Assertion,
		reflect.TypeFor[Cleanup]():   Cleanup,
	},
}

// RoleOf reports the role carried by a declared field type.
func RoleOf(t reflect.Type) (Role, bool) {
	roles.mu.RLock()
	defer roles.mu.RUnlock()
	r, ok := roles.types[t]
	return r, ok
}

// RegisterRole tags T with role so that fields declared as T are discovered
// like the built-in markers. This lets a package use its own vocabulary:
//
//	type Given func()
//
//	func init() { spec.MustRegisterRole[Given](spec.Setup) }
//
// Registering the same type twice with the same role is a no-op; registering it
// with a different role fails. Registration drops every cached descriptor;
// register from init so that no specification is described under both sets.
func RegisterRole[T ~func()](role Role) error {
	if role < Setup || role > Cleanup {
		return fmt.Errorf("register role: unknown role %d", int(role))
	}
	t := reflect.TypeFor[T]()
	if t.Name() == "" {
		return fmt.Errorf("register role: %s must be a named type", t)
	}

	roles.mu.Lock()
	defer roles.mu.Unlock()

	if existing, ok := roles.types[t]; ok {
		if existing == role {
			return nil
		}
		return fmt.Errorf("register role: %s already carries role %s", t, existing)
	}
	roles.types[t] = role
	resetDescriptors()
	return nil
}

// MustRegisterRole is like RegisterRole but panics on error.
// Intended for package init functions.
func MustRegisterRole[T ~func()](role Role) {
	if err := RegisterRole[T](role); err != nil {
		panic(err)
	}
}
