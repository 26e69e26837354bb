package utils

import "strings"

// JoinURL joins a base URL with path elements using exactly one slash
// between each part, regardless of trailing or leading slashes on the
// inputs.
func JoinURL(base string, elems ...string) string {
	parts := make([]string, 0, len(elems)+1)
	parts = append(parts, strings.TrimRight(base, "/"))
	for _, elem := range elems {
		parts = append(parts, strings.Trim(elem, "/"))
	}
	return strings.Join(parts, "/")
}
