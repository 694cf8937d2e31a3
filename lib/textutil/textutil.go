package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeLabel trims a dropdown label and collapses inner whitespace runs
// into single spaces.
func NormalizeLabel(label string) string {
	label = strings.Trim(label, " \n\t\r ")
	return whitespaceRegex.ReplaceAllString(label, " ")
}

// HasPrefixFold reports whether text begins with prefix, ignoring case.
func HasPrefixFold(text, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(text), strings.ToLower(prefix))
}

// LeadingCode returns the part of a label before the first space or dash,
// ex. "CS - Computer Science" -> "CS".
func LeadingCode(label string) string {
	label = NormalizeLabel(label)
	end := strings.IndexAny(label, " -")
	if end < 0 {
		return label
	}
	return label[:end]
}
