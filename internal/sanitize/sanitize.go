package sanitize

import (
	"regexp"
	"strings"
)

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	spaces       = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Filename removes characters that aren't allowed in a path component.
// Case is preserved and Filename(Filename(s)) == Filename(s).
func Filename(title string) string {
	// Collapse whitespace, including non-breaking spaces
	title = spaces.ReplaceAllString(title, " ")

	// Remove illegal chars
	title = illegalChars.ReplaceAllString(title, "")
	title = spaces.ReplaceAllString(title, " ")

	// Trim spaces & dots
	return strings.Trim(title, " .")
}
