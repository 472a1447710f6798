package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestSurveyDriverNotify(t *testing.T) {
	var out bytes.Buffer
	d := &SurveyDriver{Out: &out}

	if err := d.Notify(context.Background(), Notice{Kind: NoticeLocked, Title: "Commit", Ref: "abcd123"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := d.Notify(context.Background(), Notice{Kind: NoticeMalformed, Ref: "master"}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	want := "Commit: abcd123\n! selected build carries no commit ref, using \"master\"\n"
	if out.String() != want {
		t.Fatalf("notices = %q, want %q", out.String(), want)
	}
}

func TestSurveyDriverHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &SurveyDriver{Out: &bytes.Buffer{}}

	if _, err := d.ChooseBuild(ctx, ChoicePrompt{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("ChooseBuild err = %v", err)
	}
	if _, err := d.ChooseStages(ctx, ChoicePrompt{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("ChooseStages err = %v", err)
	}
	if _, err := d.EnterCommit(ctx, CommitPrompt{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("EnterCommit err = %v", err)
	}
	if err := d.Notify(ctx, Notice{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Notify err = %v", err)
	}
}

func TestValidRef(t *testing.T) {
	for _, ref := range []string{"abcd123", "origin/master", " master "} {
		if err := validRef(ref); err != nil {
			t.Fatalf("validRef(%q) = %v", ref, err)
		}
	}
	for _, ref := range []string{"abcd 123", "a\tb"} {
		if err := validRef(ref); err == nil {
			t.Fatalf("validRef(%q) accepted", ref)
		}
	}
}

func TestHints(t *testing.T) {
	hint := hints([]Choice{{Label: "No new static"}, {Label: "Static 42", Hint: "abcd123"}})
	if got := hint("Static 42", 1); got != "abcd123" {
		t.Fatalf("hint = %q", got)
	}
	if got := hint("", 7); got != "" {
		t.Fatalf("out of range hint = %q", got)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if err := translateSurveyErr(terminal.InterruptErr); !errors.Is(err, ErrAborted) {
		t.Fatalf("interrupt = %v", err)
	}
	other := errors.New("boom")
	if err := translateSurveyErr(other); err != other {
		t.Fatalf("other = %v", err)
	}
}
