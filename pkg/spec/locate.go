package spec

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/samber/lo"
)

// Member is a role-tagged field of a specification type.
type Member struct {
	// Name is the declared field name.
	Name string

	// DisplayName is the human-readable phrase derived from Name.
	DisplayName string

	// Role is the lifecycle role carried by the field's type.
	Role Role

	// Level is the struct that declares the field.
	Level reflect.Type

	// Depth is the level's position in the chain, 0 being the most-base level.
	Depth int

	// index is the field path from the concrete type, through the embedded
	// ancestors, to the field.
	index []int
}

// QualifiedName returns "Level.Name".
func (m Member) QualifiedName() string {
	return m.Level.Name() + "." + m.Name
}

// Descriptor is the discovered shape of one concrete specification type.
// It is computed once per type and shared by every instance.
type Descriptor struct {
	// Type is the concrete struct type.
	Type reflect.Type

	// Levels lists the structs of the chain, most-base first. Base itself
	// is not a level.
	Levels []reflect.Type

	// Setups holds at most one member per level, most-base first.
	Setups []Member

	// Action is the most-derived Action member, or nil.
	Action *Member

	// Cleanups holds at most one member per level, most-base first.
	Cleanups []Member

	// Assertions holds every assertion, most-base level first and in
	// declaration order within a level.
	Assertions []Member

	actions []Member
}

// descriptorEntry is a cached Describe result and the role generation it
// was built under.
type descriptorEntry struct {
	desc *Descriptor
	err  error
	gen  uint64
}

var (
	descriptors     sync.Map // reflect.Type -> *descriptorEntry
	roleGeneration  atomic.Uint64
	specificationIf = reflect.TypeFor[Specification]()
	funcType        = reflect.TypeFor[func()]()
)

// resetDescriptors invalidates every cached descriptor. Called with the role
// registry locked.
func resetDescriptors() {
	roleGeneration.Add(1)
	descriptors.Clear()
}

// Describe returns the descriptor of a specification type, building and
// caching it on first use. t may be a struct type or a pointer to one.
// Every configuration error is reported here, before anything runs.
func Describe(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, newConfigError(&ConfigError{
			Code:    ErrCodeNotSpecification,
			Message: "nil specification type",
		})
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	// A descriptor built while RegisterRole runs may have seen either role
	// set; it is only cached, and only returned, under an unchanged generation.
	for {
		gen := roleGeneration.Load()
		if cached, ok := descriptors.Load(t); ok {
			entry := cached.(*descriptorEntry)
			if entry.gen == gen {
				return entry.desc, entry.err
			}
			descriptors.CompareAndDelete(t, cached)
		}

		desc, err := buildDescriptor(t)
		if roleGeneration.Load() != gen {
			continue
		}
		actual, _ := descriptors.LoadOrStore(t, &descriptorEntry{desc: desc, err: err, gen: gen})
		if entry := actual.(*descriptorEntry); entry.gen == gen {
			return entry.desc, entry.err
		}
	}
}

// LocateUnique returns the most-derived member carrying role, or nil when no
// level declares one. Assertions are never unique; use LocateAll for them.
func LocateUnique(role Role, t reflect.Type) (*Member, error) {
	if role == Assertion {
		return nil, fmt.Errorf("locate: role %s has no unique member", role)
	}
	members, err := LocateAll(role, t)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	m := members[len(members)-1]
	return &m, nil
}

// LocateAll returns every member carrying role, most-base level first.
// For Setup, Action and Cleanup that is at most one member per level.
func LocateAll(role Role, t reflect.Type) ([]Member, error) {
	desc, err := Describe(t)
	if err != nil {
		return nil, err
	}
	switch role {
	case Setup:
		return desc.Setups, nil
	case Action:
		return desc.actions, nil
	case Cleanup:
		return desc.Cleanups, nil
	case Assertion:
		return desc.Assertions, nil
	default:
		return nil, fmt.Errorf("locate: unknown role %s", role)
	}
}

// level is one struct of the chain together with the field path leading to it.
type level struct {
	typ      reflect.Type
	path     []int
	ancestor int // field index of the embedded ancestor (Base for the most-base level)
}

func buildDescriptor(t reflect.Type) (*Descriptor, error) {
	if t.Kind() != reflect.Struct {
		return nil, newConfigError(&ConfigError{
			Code:    ErrCodeNotSpecification,
			Type:    t,
			Message: fmt.Sprintf("%s is not a struct", t.Kind()),
		})
	}

	chain, err := chainOf(t)
	if err != nil {
		return nil, err
	}

	desc := &Descriptor{Type: t}
	for depth, lvl := range chain {
		desc.Levels = append(desc.Levels, lvl.typ)

		members := membersOf(lvl, depth)
		for _, role := range []Role{Setup, Action, Cleanup} {
			tagged := lo.Filter(members, func(m Member, _ int) bool { return m.Role == role })
			if len(tagged) > 1 {
				return nil, newConfigError(&ConfigError{
					Code:    ErrCodeAmbiguousRole,
					Type:    t,
					Level:   lvl.typ,
					Role:    role,
					Members: lo.Map(tagged, func(m Member, _ int) string { return m.Name }),
					Message: fmt.Sprintf("%s declares %d %s members", lvl.typ.Name(), len(tagged), role),
				})
			}
			if len(tagged) == 1 {
				switch role {
				case Setup:
					desc.Setups = append(desc.Setups, tagged[0])
				case Action:
					desc.actions = append(desc.actions, tagged[0])
				case Cleanup:
					desc.Cleanups = append(desc.Cleanups, tagged[0])
				}
			}
		}
		desc.Assertions = append(desc.Assertions,
			lo.Filter(members, func(m Member, _ int) bool { return m.Role == Assertion })...)
	}

	if n := len(desc.actions); n > 0 {
		action := desc.actions[n-1]
		desc.Action = &action
	}

	if err := checkAssertionNames(t, desc.Assertions); err != nil {
		return nil, err
	}
	return desc, nil
}

// chainOf walks from t up the embedded specification ancestors and returns
// the levels most-base first. The walk stops at Base, which is excluded.
func chainOf(t reflect.Type) ([]level, error) {
	var leafFirst []level
	cur := t
	var path []int
	for {
		ancestors := lo.Filter(reflect.VisibleFields(cur), func(f reflect.StructField, _ int) bool {
			return len(f.Index) == 1 && f.Anonymous && f.Type.Implements(specificationIf)
		})
		if len(ancestors) == 0 {
			return nil, newConfigError(&ConfigError{
				Code:    ErrCodeNotSpecification,
				Type:    t,
				Level:   cur,
				Message: fmt.Sprintf("%s does not embed spec.Base", cur.Name()),
			})
		}
		if len(ancestors) > 1 {
			return nil, newConfigError(&ConfigError{
				Code:    ErrCodeAmbiguousChain,
				Type:    t,
				Level:   cur,
				Members: lo.Map(ancestors, func(f reflect.StructField, _ int) string { return f.Name }),
				Message: fmt.Sprintf("%s embeds %d specification ancestors", cur.Name(), len(ancestors)),
			})
		}

		anc := ancestors[0]
		if anc.Type.Kind() != reflect.Struct {
			return nil, newConfigError(&ConfigError{
				Code:    ErrCodeUnsupportedEmbedding,
				Type:    t,
				Level:   cur,
				Members: []string{anc.Name},
				Message: fmt.Sprintf("%s embeds %s, not a struct value", cur.Name(), anc.Type),
			})
		}

		leafFirst = append(leafFirst, level{typ: cur, path: path, ancestor: anc.Index[0]})
		if anc.Type == baseType {
			break
		}
		path = append(append([]int(nil), path...), anc.Index[0])
		cur = anc.Type
	}

	chain := make([]level, len(leafFirst))
	for i, lvl := range leafFirst {
		chain[len(leafFirst)-1-i] = lvl
	}
	return chain, nil
}

// membersOf returns the role-tagged fields a level declares itself, in
// declaration order.
func membersOf(lvl level, depth int) []Member {
	var members []Member
	for i := 0; i < lvl.typ.NumField(); i++ {
		if i == lvl.ancestor {
			continue
		}
		f := lvl.typ.Field(i)
		role, ok := RoleOf(f.Type)
		if !ok {
			continue
		}
		members = append(members, Member{
			Name:        f.Name,
			DisplayName: DisplayName(f.Name),
			Role:        role,
			Level:       lvl.typ,
			Depth:       depth,
			index:       append(append([]int(nil), lvl.path...), i),
		})
	}
	return members
}

func checkAssertionNames(t reflect.Type, assertions []Member) error {
	byName := lo.GroupBy(assertions, func(m Member) string { return m.DisplayName })
	for _, m := range assertions {
		same := byName[m.DisplayName]
		if len(same) > 1 {
			return newConfigError(&ConfigError{
				Code:    ErrCodeDuplicateAssertion,
				Type:    t,
				Level:   same[len(same)-1].Level,
				Role:    Assertion,
				Members: lo.Map(same, func(m Member, _ int) string { return m.QualifiedName() }),
				Message: fmt.Sprintf("%d assertions are named %q", len(same), m.DisplayName),
			})
		}
	}
	return nil
}

// bind reads the member's function value from an addressable instance. The
// field may be unexported, so it is reached through its address. A nil field
// yields nil.
func (m Member) bind(v reflect.Value) func() {
	f := v.FieldByIndex(m.index)
	f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	if f.IsNil() {
		return nil
	}
	return f.Convert(funcType).Interface().(func())
}
