package commitsync

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goliatone/go-rolloutform/pkg/dom"
)

func rolloutPage(stageValues ...string) string {
	var b strings.Builder
	b.WriteString(`<form>
<select id="static" name="static">
  <option value="">No new static</option>
  <option value="42">Static 42 (webs-static-42-20240109-abcd123)</option>
  <option value="43">Static 43 (pending)</option>
</select>
`)
	for i, value := range stageValues {
		fmt.Fprintf(&b, `<input type="checkbox" name="stages" id="stages-%d" value="%s">`+"\n", i, value)
	}
	b.WriteString(`<label for="commit">Commit</label>
<input type="text" id="commit" name="commit" value="master">
</form>`)
	return b.String()
}

var stockStages = []string{
	"deploy_db", "deploy_app", "deploy_cron", "deploy_workers",
	"deploy_static", "deploy_webs", RestrictedStageValue,
}

func parsePage(t *testing.T, stages []string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(rolloutPage(stages...))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustQuery(t *testing.T, doc *dom.Document, selector string) *dom.Element {
	t.Helper()
	el, err := doc.Query(selector)
	if err != nil {
		t.Fatalf("query %s: %v", selector, err)
	}
	return el
}

func TestMountDocumentLockedProfile(t *testing.T) {
	doc := parsePage(t, stockStages)
	s, err := MountDocument(doc, WithProfile(ProfileLocked))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer s.Unmount()

	static := mustQuery(t, doc, "#static")
	stage := mustQuery(t, doc, "#stages-6")
	commit := mustQuery(t, doc, "#commit")
	label := mustQuery(t, doc, "label[for=commit]")

	if err := static.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if commit.Value() != "abcd123" || commit.Disabled() || label.Text() != "LOCKED to static commit for Webs deploy" {
		t.Fatalf("after select: value=%q disabled=%v label=%q", commit.Value(), commit.Disabled(), label.Text())
	}

	if err := stage.SetChecked(true); err != nil {
		t.Fatalf("check: %v", err)
	}
	if commit.Value() != "abcd123" || !commit.Disabled() || label.Text() != "Commit (set to static commit)" {
		t.Fatalf("after check: value=%q disabled=%v label=%q", commit.Value(), commit.Disabled(), label.Text())
	}

	if err := static.Select(2); err != nil {
		t.Fatalf("select malformed: %v", err)
	}
	if commit.Value() != "abcd123" || !commit.Disabled() {
		t.Fatalf("malformed option changed the field: value=%q disabled=%v", commit.Value(), commit.Disabled())
	}

	if err := static.Select(0); err != nil {
		t.Fatalf("select sentinel: %v", err)
	}
	if commit.Value() != "master" || commit.Disabled() || label.Text() != "Commit" {
		t.Fatalf("after sentinel: value=%q disabled=%v label=%q", commit.Value(), commit.Disabled(), label.Text())
	}
}

func TestMountDocumentPreliveProfile(t *testing.T) {
	// The prelive profile finds the stage by value, wherever it sits.
	stages := []string{RestrictedStageValue, "deploy_db"}
	doc := parsePage(t, stages)
	s, err := MountDocument(doc, WithProfile(ProfilePrelive))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer s.Unmount()

	static := mustQuery(t, doc, "#static")
	stage := mustQuery(t, doc, "#stages-0")
	commit := mustQuery(t, doc, "#commit")
	label := mustQuery(t, doc, "label[for=commit]")

	if err := static.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if commit.Value() != "abcd123" || !commit.Disabled() {
		t.Fatalf("after select: value=%q disabled=%v", commit.Value(), commit.Disabled())
	}
	if err := stage.SetChecked(true); err != nil {
		t.Fatalf("check: %v", err)
	}
	if commit.Disabled() {
		t.Fatalf("prelive deploy should leave the commit editable")
	}
	if err := static.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if commit.Value() != "origin/master" || commit.Disabled() {
		t.Fatalf("after sentinel: value=%q disabled=%v", commit.Value(), commit.Disabled())
	}
	if label.Text() != "Commit" {
		t.Fatalf("prelive profile changed label to %q", label.Text())
	}
}

func TestGuardedStageWithShiftedLayout(t *testing.T) {
	// Seven stages but #stages-6 is not the pre-live stage.
	shifted := append([]string{}, stockStages...)
	shifted[5], shifted[6] = shifted[6], shifted[5]
	doc := parsePage(t, shifted)

	s, err := MountDocument(doc, WithProfile(ProfileLocked))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer s.Unmount()

	static := mustQuery(t, doc, "#static")
	wrong := mustQuery(t, doc, "#stages-6")
	commit := mustQuery(t, doc, "#commit")

	if err := static.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := wrong.SetChecked(true); err != nil {
		t.Fatalf("check: %v", err)
	}
	if commit.Disabled() {
		t.Fatalf("guard failure must behave as not restricted")
	}
}

func TestGuardedStageMissingElement(t *testing.T) {
	doc := parsePage(t, stockStages[:3])
	s, err := MountDocument(doc, WithProfile(ProfileLocked), WithSyncOnMount(true))
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer s.Unmount()

	if got := s.Read(); got.Restricted {
		t.Fatalf("missing stage element read as restricted")
	}
}

func TestBindErrors(t *testing.T) {
	if _, err := Bind(nil, ProfileLocked); !errors.Is(err, ErrMissingControl) {
		t.Fatalf("nil doc: %v", err)
	}

	doc, err := dom.ParseString(`<select id="static"></select><input id="commit">`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Bind(doc, ProfileLocked); !errors.Is(err, ErrMissingControl) || !errors.Is(err, dom.ErrNotFound) {
		t.Fatalf("missing label: %v", err)
	}
	if _, err := Bind(doc, ProfilePrelive); !errors.Is(err, ErrMissingControl) {
		t.Fatalf("missing fixed stage: %v", err)
	}
}
