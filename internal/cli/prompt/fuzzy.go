package prompt

import (
	"slices"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/repokit/internal/errors"
)

// Fuzzy is a full-screen Chooser for interactive terminals.
type Fuzzy struct {
	find func(items []string, question string) (int, error)
}

var _ Chooser = (*Fuzzy)(nil)

// NewFuzzy returns a Chooser backed by go-fuzzyfinder.
func NewFuzzy() *Fuzzy {
	return &Fuzzy{find: findOne}
}

func findOne(items []string, question string) (int, error) {
	return fuzzyfinder.Find(
		items,
		func(i int) string { return items[i] },
		fuzzyfinder.WithPromptString(question+" > "),
	)
}

// Choose shows choices with def listed first. Aborting the finder returns
// ErrSelectionCancelled.
func (f *Fuzzy) Choose(question string, choices []string, def string) (string, error) {
	switch len(choices) {
	case 0:
		if def == "" {
			return "", ErrNoChoices
		}
		return def, nil
	case 1:
		return choices[0], nil
	}

	items := ordered(choices, def)
	idx, err := f.find(items, question)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	return items[idx], nil
}

// ordered moves def to the front so it is selected when the user just
// presses enter.
func ordered(choices []string, def string) []string {
	i := slices.Index(choices, def)
	if i <= 0 {
		return choices
	}
	out := make([]string, 0, len(choices))
	out = append(out, def)
	out = append(out, choices[:i]...)
	return append(out, choices[i+1:]...)
}
