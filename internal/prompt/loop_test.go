package prompt

import (
	"bytes"
	"strings"
	"testing"
)

type scriptInput struct {
	answers []Answer
	pos     int
}

func (s *scriptInput) ReadLine(string) Answer {
	if s.pos >= len(s.answers) {
		return Answer{Cancelled: true}
	}
	answer := s.answers[s.pos]
	s.pos++
	return answer
}

func TestUniqueSelectionRepromptsOnNoMatch(t *testing.T) {
	var out bytes.Buffer
	input := &scriptInput{answers: []Answer{
		{Text: "boston"},
		{Text: "ch"},
	}}
	selector := NewSelector(input, &out)

	got := selector.UniqueSelection("city? ", []string{"Chicago", "New York City", "Quit"})
	if got != "Chicago" {
		t.Fatalf("expected Chicago, got %q", got)
	}
	if !strings.Contains(out.String(), `There was no match for "boston"`) {
		t.Fatalf("expected no-match echo, got %q", out.String())
	}
	for _, option := range []string{"Chicago", "New York City", "Quit"} {
		if !strings.Contains(out.String(), option) {
			t.Fatalf("expected full option list echo to include %q", option)
		}
	}
}

func TestUniqueSelectionEchoesAmbiguousSubset(t *testing.T) {
	var out bytes.Buffer
	input := &scriptInput{answers: []Answer{
		{Text: "new"},
		{Text: "newa"},
	}}
	selector := NewSelector(input, &out)

	got := selector.UniqueSelection("city? ", []string{"New York City", "Newark", "Quit"})
	if got != "Newark" {
		t.Fatalf("expected Newark, got %q", got)
	}
	echoed := out.String()
	if !strings.Contains(echoed, `There was more than one match to "new"`) {
		t.Fatalf("expected ambiguity echo, got %q", echoed)
	}
	if !strings.Contains(echoed, "New York City") || !strings.Contains(echoed, "Newark") {
		t.Fatalf("expected ambiguous subset echo, got %q", echoed)
	}
	if strings.Contains(echoed, "\tQuit") {
		t.Fatalf("ambiguity echo should not include non-matching options, got %q", echoed)
	}
}

func TestUniqueSelectionCancelResolvesToQuit(t *testing.T) {
	var out bytes.Buffer
	input := &scriptInput{answers: []Answer{{Cancelled: true}}}
	selector := NewSelector(input, &out)

	got := selector.UniqueSelection("city? ", []string{"Chicago", "Quit"})
	if got != Quit {
		t.Fatalf("expected Quit sentinel, got %q", got)
	}
	if out.Len() != 0 {
		t.Fatalf("cancel should not re-prompt, got output %q", out.String())
	}
}

func TestUniqueSelectionTypedQuitResolvesByPrefix(t *testing.T) {
	var out bytes.Buffer
	input := &scriptInput{answers: []Answer{{Text: "q"}}}
	selector := NewSelector(input, &out)

	got := selector.UniqueSelection("city? ", []string{"Chicago", "Quit"})
	if got != "Quit" {
		t.Fatalf("expected Quit via prefix match, got %q", got)
	}
}
