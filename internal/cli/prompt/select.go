// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/repokit/internal/errors"
)

// Sentinel errors for selection.
var (
	ErrNoChoices          = errors.New("nothing to select from")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Chooser picks one of several choices.
type Chooser interface {
	Choose(question string, choices []string, def string) (string, error)
}

// Selector is a line-based Chooser for non-interactive terminals.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

var _ Chooser = (*Selector)(nil)

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{reader: r, writer: w}
}

// Choose prompts until the user enters one of choices, by name or by its
// 1-based number. An empty answer selects def.
//
// Returns:
//   - ErrNoChoices if choices is empty and def is empty
//   - def without prompting if choices is empty
//   - the only choice without prompting if there is exactly one
//   - ErrSelectionCancelled if input ends (e.g., Ctrl+D)
func (s *Selector) Choose(question string, choices []string, def string) (string, error) {
	switch len(choices) {
	case 0:
		if def == "" {
			return "", ErrNoChoices
		}
		return def, nil
	case 1:
		return choices[0], nil
	}

	fmt.Fprintf(s.writer, "%s\n", question)
	for i, c := range choices {
		marker := " "
		if c == def {
			marker = "*"
		}
		fmt.Fprintf(s.writer, " %s[%d] %s\n", marker, i+1, c)
	}

	reader := bufio.NewReader(s.reader)
	for {
		if def != "" {
			fmt.Fprintf(s.writer, "Select [%s]: ", def)
		} else {
			fmt.Fprint(s.writer, "Select: ")
		}

		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if err != nil && (input == "" || !errors.Is(err, io.EOF)) {
			if errors.Is(err, io.EOF) {
				return "", ErrSelectionCancelled
			}
			return "", errors.Wrap(err, "reading selection")
		}

		if choice, ok := match(input, choices, def); ok {
			return choice, nil
		}
		fmt.Fprintf(s.writer, "Please select one of the available options\n")
		if err != nil {
			return "", ErrSelectionCancelled
		}
	}
}

func match(input string, choices []string, def string) (string, bool) {
	if input == "" {
		return def, def != ""
	}
	if slices.Contains(choices, input) {
		return input, true
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], true
	}
	return "", false
}
