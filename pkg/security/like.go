package security

import "strings"

// LikeEscapeChar is the escape character declared in LIKE clauses built from ContainsPattern.
const LikeEscapeChar = `\`

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike escapes LIKE wildcards so user input is matched literally.
func EscapeLike(s string) string {
	if s == "" {
		return ""
	}
	return likeEscaper.Replace(s)
}

// ContainsPattern returns a LIKE pattern matching any value that contains s literally.
// An empty fragment yields "%%", which matches every non-null value.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
