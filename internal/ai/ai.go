// Package ai generates commit texts and change labels from a staged diff.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
)

// Labels a change can carry.
const (
	LabelFeature  = "feature"
	LabelFix      = "fix"
	LabelDocs     = "docs"
	LabelRefactor = "refactor"
	LabelTest     = "test"
	LabelChore    = "chore"
)

// AllowedLabels is the closed set ParseLabels accepts, in prompt order.
var AllowedLabels = []string{LabelFeature, LabelFix, LabelDocs, LabelRefactor, LabelTest, LabelChore}

// FallbackCommitMessage is used when the model returns an empty message.
const FallbackCommitMessage = "Auto commit with generated message"

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LabelsPrompt asks for the change types of diff.
func LabelsPrompt(diff string) string {
	return fmt.Sprintf(`Analyze the following code diff and determine all applicable change types.
Possible labels: %s.
Return only the labels as a comma separated list (e.g. 'feature, docs').

Diff:
%s
`, strings.Join(AllowedLabels, ", "), diff)
}

// CommitPrompt asks for a single commit message for diff.
func CommitPrompt(diff string) string {
	return "Generate a concise commit message for this code diff. Return exactly one message; " +
		"it may contain multiple sentences.\n" + diff
}

// TitlePrompt asks for a single pull request title for diff.
func TitlePrompt(diff string) string {
	return "Generate a short, descriptive pull request title based on this code diff. " +
		"Return exactly one title.\n" + diff
}

// ParseLabels splits a comma separated model answer into known labels.
// Unknown entries are dropped. The result is never empty.
func ParseLabels(text string) []string {
	var labels []string
	for _, part := range strings.Split(text, ",") {
		l := strings.ToLower(strings.Trim(strings.TrimSpace(part), `'"`+"`."))
		if slices.Contains(AllowedLabels, l) && !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return []string{LabelFeature}
	}
	return labels
}

// commitTypeLabels maps Conventional Commit types onto labels.
var commitTypeLabels = map[string]string{
	"feat":     LabelFeature,
	"fix":      LabelFix,
	"docs":     LabelDocs,
	"refactor": LabelRefactor,
	"test":     LabelTest,
	"chore":    LabelChore,
}

// LabelsFromCommit adds the label implied by a Conventional Commit message
// to labels. Messages that don't parse leave labels unchanged.
func LabelsFromCommit(labels []string, message string) []string {
	typ, ok := CommitType(message)
	if !ok {
		return labels
	}
	label, ok := commitTypeLabels[typ]
	if !ok || slices.Contains(labels, label) {
		return labels
	}
	return append(slices.Clone(labels), label)
}

// CommitType returns the type of a Conventional Commit message.
func CommitType(message string) (string, bool) {
	first, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	m := parser.NewMachine(parser.WithTypes(conventionalcommits.TypesConventional))
	msg, err := m.Parse([]byte(first))
	if err != nil || msg == nil || !msg.Ok() {
		return "", false
	}
	cc, ok := msg.(*conventionalcommits.ConventionalCommit)
	if !ok {
		return "", false
	}
	return strings.ToLower(cc.Type), true
}

// Texts holds everything generated for one change.
type Texts struct {
	Labels        []string
	CommitMessage string
	Title         string
}

// Describe generates labels, a commit message and a PR title for diff.
// Empty answers fall back to defaults. Generation errors are returned.
func Describe(ctx context.Context, gen Generator, diff string) (Texts, error) {
	logger := logging.FromContext(ctx)

	labelsText, err := gen.Generate(ctx, LabelsPrompt(diff))
	if err != nil {
		return Texts{}, errors.Wrap(err, "detecting change types")
	}

	msg, err := gen.Generate(ctx, CommitPrompt(diff))
	if err != nil {
		return Texts{}, errors.Wrap(err, "generating commit message")
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		logger.Warn("model returned an empty commit message, using fallback")
		msg = FallbackCommitMessage
	}

	title, err := gen.Generate(ctx, TitlePrompt(diff))
	if err != nil {
		return Texts{}, errors.Wrap(err, "generating PR title")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = msg
	}

	labels := LabelsFromCommit(ParseLabels(labelsText), msg)
	logger.Debug("generated texts", slog.Any("labels", labels), slog.Int("diff_bytes", len(diff)))

	return Texts{Labels: labels, CommitMessage: msg, Title: title}, nil
}
