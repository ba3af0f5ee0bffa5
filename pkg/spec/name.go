package spec

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// DisplayName turns a member's declared name into the phrase used as its
// test case name. Snake case keeps its casing and only trades underscores for
// spaces; Go-style mixed caps is split into words and lower-cased, leaving
// acronyms intact:
//
//	should_work_like_a_charm -> "should work like a charm"
//	ShouldRejectAnEmptyName  -> "should reject an empty name"
//	returnsHTTPErrorFor404   -> "returns HTTP error for 404"
//
// The result is NFC-normalized so names that only differ in Unicode
// composition collide.
func DisplayName(member string) string {
	member = norm.NFC.String(member)

	if strings.Contains(member, "_") {
		return strings.Join(strings.FieldsFunc(member, func(r rune) bool {
			return r == '_' || unicode.IsSpace(r)
		}), " ")
	}

	words := splitMixedCaps(member)
	for i, w := range words {
		if !isAcronym(w) {
			words[i] = lower.String(w)
		}
	}
	return strings.Join(words, " ")
}

// splitMixedCaps splits an identifier at case and digit boundaries.
func splitMixedCaps(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			// end of an acronym: "HTTPError" -> "HTTP", "Error"
			boundary = true
		case unicode.IsDigit(prev) != unicode.IsDigit(cur):
			boundary = true
		}
		if boundary {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

func isAcronym(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 1
}
