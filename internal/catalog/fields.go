// Package catalog holds the denormalized search fields the app queries
// courses and lecturers by. Import and backfill scripts share these so
// the two paths can never drift apart.
package catalog

import "strings"

// NormalizeCode strips spaces from a course code and lowercases it, e.g.
// "SWE 2020" -> "swe2020".
func NormalizeCode(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, " ", ""))
}

// SearchableFields tokenizes a course for search: the lowercased words of
// the name, the normalized code, and the code's numeric part. Duplicate
// tokens collapse, keeping first-seen order.
func SearchableFields(courseName, normalizedCode string) []string {
	seen := make(map[string]bool)
	var fields []string
	add := func(tok string) {
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		fields = append(fields, tok)
	}

	for _, tok := range strings.Fields(strings.ToLower(courseName)) {
		add(tok)
	}
	add(strings.ToLower(normalizedCode))

	var digits strings.Builder
	for _, r := range normalizedCode {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	add(digits.String())

	return fields
}

// LecturerSearchFields tokenizes a lecturer name for search.
func LecturerSearchFields(name string) (lowercase string, fields []string) {
	lowercase = strings.ToLower(name)
	return lowercase, strings.Split(lowercase, " ")
}
