package util

import "strings"

var unsafeNameChars = strings.NewReplacer("/", "_", `\`, "_", "\x00", "_")

// SafeName turns a client-influenced string into a single path element:
// separators become underscores and ".." sequences are broken up.
func SafeName(name string) string {
	s := unsafeNameChars.Replace(strings.TrimSpace(name))
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", "._")
	}
	if s == "" || s == "." {
		return "_"
	}
	return s
}
