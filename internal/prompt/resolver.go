// Package prompt implements prefix-matched option selection.
package prompt

import "strings"

// MatchPrefix returns the options whose lowercase form starts with the
// trimmed, lowercased input. Matched options keep their original casing.
// An empty input is a prefix of every option.
func MatchPrefix(options []string, input string) []string {
	needle := strings.ToLower(strings.TrimSpace(input))
	var matched []string
	for _, option := range options {
		if strings.HasPrefix(strings.ToLower(option), needle) {
			matched = append(matched, option)
		}
	}
	return matched
}
