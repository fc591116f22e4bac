package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases a display name and collapses anything that is not a letter
// or digit into single dashes.
func Make(name string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// NewProjectID derives a readable, unique project id from a display name.
func NewProjectID(name string) string {
	base := Make(name)
	if base == "" {
		base = "project"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:5]
	return base + "-" + suffix
}
