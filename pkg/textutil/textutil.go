package textutil

import (
	"regexp"
	"strings"
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	nameSuffix    = regexp.MustCompile(`(?i)\s*,\s*(Jr\.?|Sr\.?|II|III|IV|V)$`)
	entitySuffix  = regexp.MustCompile(`(?i)\s+(PC|PAC|INC|LLC|CORP|CORPORATION|COMMITTEE)\s*$`)
)

// CollapseSpaces trims `s` and replaces inner runs of whitespace with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripParenthetical removes every "(...)" group, e.g. party designations.
func StripParenthetical(s string) string {
	return CollapseSpaces(parenthetical.ReplaceAllString(s, ""))
}

// NormalizeName prepares a person's name for exact matching: parenthetical
// groups and generational suffixes are removed, whitespace collapsed and
// surrounding commas trimmed. Casing is lowered so "DESANTIS, RON" matches
// "DeSantis, Ron".
func NormalizeName(name string) string {
	name = parenthetical.ReplaceAllString(name, "")
	name = nameSuffix.ReplaceAllString(name, "")
	name = CollapseSpaces(name)
	name = strings.Trim(name, ", ")
	return strings.ToLower(name)
}

// NormalizeEntityName prepares a committee name for exact matching, dropping a
// trailing PC/PAC/INC/LLC/CORP/COMMITTEE designation.
func NormalizeEntityName(name string) string {
	name = CollapseSpaces(name)
	name = entitySuffix.ReplaceAllString(name, "")
	return strings.ToLower(CollapseSpaces(name))
}

// FullName builds "Last, First Middle".
func FullName(first, last, middle string) string {
	parts := []string{strings.TrimSpace(last), strings.TrimSpace(first)}
	out := strings.Join(parts, ", ")
	middle = strings.TrimSpace(middle)
	if middle != "" {
		out += " " + middle
	}
	return out
}

// SplitName parses "Last, First Middle" or "First Middle Last" into its
// components. A single word is treated as a last name.
func SplitName(name string) (first, last, middle string) {
	name = NormalizeName(name)

	if before, after, found := strings.Cut(name, ","); found {
		last = strings.TrimSpace(before)
		rest := strings.Fields(after)
		if len(rest) > 0 {
			return rest[0], last, strings.Join(rest[1:], " ")
		}
	}

	parts := strings.Fields(strings.ReplaceAll(name, ",", " "))
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return "", parts[0], ""
	}
	return parts[0], parts[len(parts)-1], strings.Join(parts[1:len(parts)-1], " ")
}
