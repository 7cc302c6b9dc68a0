package prompt

import (
	"fmt"
	"io"
)

// Quit is the reserved option signaling the user wants to stop. A literal
// "Quit" typed by the user is ordinary text matched by prefix; only a
// cancelled input resolves to the sentinel directly.
const Quit = "Quit"

// Selector drives prompting until input resolves to exactly one option.
type Selector struct {
	in  InputSource
	out io.Writer
}

// NewSelector builds a selector over an input source and an output writer
// for the option echoes.
func NewSelector(in InputSource, out io.Writer) *Selector {
	return &Selector{in: in, out: out}
}

// UniqueSelection prompts until the input matches exactly one option and
// returns it. No match echoes the full option list; multiple matches echo
// the ambiguous subset. A cancelled input resolves to Quit immediately, so
// the option list must itself contain Quit for the sentinel to compare
// meaningfully against other selections.
func (s *Selector) UniqueSelection(promptText string, options []string) string {
	for {
		answer := s.in.ReadLine(promptText)
		if answer.Cancelled {
			return Quit
		}
		matched := MatchPrefix(options, answer.Text)
		switch len(matched) {
		case 0:
			fmt.Fprintf(s.out, "\nThere was no match for %q. Please try again. Here are the options:\n", answer.Text)
			for _, option := range options {
				fmt.Fprintf(s.out, "\t%s\n", option)
			}
		case 1:
			return matched[0]
		default:
			fmt.Fprintf(s.out, "\nThere was more than one match to %q:\n", answer.Text)
			for _, match := range matched {
				fmt.Fprintf(s.out, "\t%s\n", match)
			}
			fmt.Fprintln(s.out, `Please be more specific or "quit".`)
		}
	}
}
