package spec

import (
	"reflect"
	"strings"
)

// Base is the root of every specification chain. Embed it (by value) in the
// most-base specification struct, and embed that struct in each derived one:
//
//	type AccountSpecs struct{ spec.Base }
//
//	type WhenDepositing struct {
//		AccountSpecs
//		context spec.Establish
//		of      spec.Because
//		should_increase_the_balance spec.It
//	}
//
// Base carries no state; the captured fault lives in the Fixture that drives
// the instance.
type Base struct{}

func (Base) specificationRoot() {}

// Specification is satisfied by any struct that embeds Base, directly or
// through an ancestor specification.
type Specification interface {
	specificationRoot()
}

var baseType = reflect.TypeFor[Base]()

// Subject names the concept a specification exercises. It only feeds the
// category label of the specification's test cases.
type Subject struct {
	Concept   string
	Qualifier string
}

// NewSubject returns a Subject for concept with an optional qualifier.
func NewSubject(concept string, qualifier ...string) Subject {
	return Subject{Concept: concept, Qualifier: strings.Join(qualifier, " ")}
}

// SubjectOf returns a Subject whose concept is the name of T.
func SubjectOf[T any](qualifier ...string) Subject {
	return NewSubject(reflect.TypeFor[T]().Name(), qualifier...)
}

// Label formats the subject as a single category label:
// "Concept, Qualifier", or whichever part is present.
func (s Subject) Label() string {
	concept := strings.TrimSpace(s.Concept)
	qualifier := strings.TrimSpace(s.Qualifier)
	switch {
	case concept != "" && qualifier != "":
		return concept + ", " + qualifier
	case concept != "":
		return concept
	default:
		return qualifier
	}
}

// Subjected is implemented by specifications that declare a Subject. The
// method is promoted through embedding, so a subject declared on an ancestor
// applies to every derived specification unless the derived one overrides it.
type Subjected interface {
	Subject() Subject
}

// CategoryOf returns the category label for s, or "" when s declares no subject.
func CategoryOf(s Specification) string {
	if sub, ok := s.(Subjected); ok {
		return sub.Subject().Label()
	}
	return ""
}
