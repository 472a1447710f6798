package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Choice is one static build or deploy stage offered to the operator.
type Choice struct {
	Label string
	// Hint is shown next to the highlighted entry. Static builds carry their
	// short commit ref here.
	Hint     string
	Selected bool
}

// ChoicePrompt lists the static builds or the deploy stages.
type ChoicePrompt struct {
	Title   string
	Help    string
	Choices []Choice
}

// CommitPrompt asks for the commit ref. Default is the derived ref and is
// used when the answer is left blank.
type CommitPrompt struct {
	Title   string
	Help    string
	Default string
}

// NoticeKind classifies what a Notice reports.
type NoticeKind int

const (
	// NoticeLocked reports a commit ref fixed by the selected build.
	NoticeLocked NoticeKind = iota
	// NoticeMalformed reports a build label with no parsable commit ref.
	NoticeMalformed
)

// Notice is a non-interactive message about the commit field.
type Notice struct {
	Kind  NoticeKind
	Title string
	Ref   string
	Err   error
}

// String renders the notice as a single terminal line.
func (n Notice) String() string {
	switch n.Kind {
	case NoticeMalformed:
		return fmt.Sprintf("! selected build carries no commit ref, using %q", n.Ref)
	default:
		return fmt.Sprintf("%s: %s", n.Title, n.Ref)
	}
}

// PromptDriver asks the three rollout questions. Render logic is tested with
// scripted drivers; SurveyDriver talks to a real terminal.
type PromptDriver interface {
	ChooseBuild(ctx context.Context, prompt ChoicePrompt) (int, error)
	ChooseStages(ctx context.Context, prompt ChoicePrompt) ([]int, error)
	EnterCommit(ctx context.Context, prompt CommitPrompt) (string, error)
	Notify(ctx context.Context, notice Notice) error
}

// SurveyDriver prompts with survey. Notices go to Out, or stderr when Out is
// nil, so they never mix with serialized output.
type SurveyDriver struct {
	Out io.Writer
}

func (d *SurveyDriver) ChooseBuild(ctx context.Context, p ChoicePrompt) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prompt := &survey.Select{
		Message:     p.Title,
		Help:        p.Help,
		Options:     labels(p.Choices),
		Description: hints(p.Choices),
	}
	for i, choice := range p.Choices {
		if choice.Selected {
			prompt.Default = i
			break
		}
	}
	var answer core.OptionAnswer
	if err := survey.AskOne(prompt, &answer); err != nil {
		return 0, translateSurveyErr(err)
	}
	return answer.Index, nil
}

func (d *SurveyDriver) ChooseStages(ctx context.Context, p ChoicePrompt) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prompt := &survey.MultiSelect{
		Message:  p.Title,
		Help:     p.Help,
		Options:  labels(p.Choices),
		PageSize: len(p.Choices),
	}
	var preset []int
	for i, choice := range p.Choices {
		if choice.Selected {
			preset = append(preset, i)
		}
	}
	if len(preset) > 0 {
		prompt.Default = preset
	}
	var answers []core.OptionAnswer
	if err := survey.AskOne(prompt, &answers); err != nil {
		return nil, translateSurveyErr(err)
	}
	picked := make([]int, 0, len(answers))
	for _, answer := range answers {
		picked = append(picked, answer.Index)
	}
	return picked, nil
}

func (d *SurveyDriver) EnterCommit(ctx context.Context, p CommitPrompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := &survey.Input{
		Message: p.Title,
		Help:    p.Help,
		Default: p.Default,
	}
	var ref string
	if err := survey.AskOne(prompt, &ref, survey.WithValidator(survey.ComposeValidators(survey.Required, validRef))); err != nil {
		return "", translateSurveyErr(err)
	}
	return ref, nil
}

func (d *SurveyDriver) Notify(ctx context.Context, notice Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := d.Out
	if out == nil {
		out = os.Stderr
	}
	_, err := fmt.Fprintln(out, notice.String())
	return err
}

// validRef rejects refs with embedded whitespace; git refs cannot carry it.
func validRef(ans any) error {
	ref, _ := ans.(string)
	if strings.ContainsAny(strings.TrimSpace(ref), " \t\n") {
		return errors.New("commit ref cannot contain whitespace")
	}
	return nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func labels(choices []Choice) []string {
	out := make([]string, len(choices))
	for i, choice := range choices {
		out[i] = choice.Label
	}
	return out
}

func hints(choices []Choice) func(string, int) string {
	return func(_ string, index int) string {
		if index < 0 || index >= len(choices) {
			return ""
		}
		return choices[index].Hint
	}
}
