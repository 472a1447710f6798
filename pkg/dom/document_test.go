package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const fixture = `<form id="rollout">
  <select id="static" name="static">
    <option value="">No new static</option>
    <option value="42">Static 42 (webs-static-42-20240109-abcd123)</option>
  </select>
  <input type="checkbox" id="stages-0" name="stages" value="deploy_db">
  <input type="checkbox" id="stages-1" name="stages" value="deploy_only_prelive_webs" checked>
  <input type="radio" id="env-a" name="env" value="a" checked>
  <input type="radio" id="env-b" name="env" value="b">
  <label for="commit">Commit</label>
  <input type="text" id="commit" name="commit" value="master">
</form>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(fixture)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestQuerySelectors(t *testing.T) {
	doc := mustParse(t)

	cases := map[string]string{
		"#static": "static",
		"input[name=stages][value=deploy_only_prelive_webs]": "stages-1",
		"input[name='stages'][value=\"deploy_db\"]":          "stages-0",
		"input#commit":             "commit",
		"form#rollout select":      "static",
		"input[name=env][checked]": "env-a",
	}
	for selector, wantID := range cases {
		el, err := doc.Query(selector)
		if err != nil {
			t.Fatalf("Query(%q): %v", selector, err)
		}
		if el.ID() != wantID {
			t.Errorf("Query(%q) id = %q, want %q", selector, el.ID(), wantID)
		}
	}

	label, err := doc.Query("label[for=commit]")
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	if label.Text() != "Commit" {
		t.Fatalf("label text = %q", label.Text())
	}

	if _, err := doc.Query("#missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, bad := range []string{"", "  ", "#", "input[name", "input[=x]"} {
		if _, err := doc.Query(bad); err == nil {
			t.Errorf("Query(%q) expected error", bad)
		}
	}

	all, err := doc.QueryAll("input[name=stages]")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("QueryAll returned %d elements", len(all))
	}
}

func TestElementIdentityIsStable(t *testing.T) {
	doc := mustParse(t)
	a, _ := doc.ByID("commit")
	b, _ := doc.Query("input[name=commit]")
	if a != b {
		t.Fatalf("expected the same *Element for the same node")
	}
}

func TestSelectDispatchesChange(t *testing.T) {
	doc := mustParse(t)
	sel, _ := doc.ByID("static")

	if got := sel.SelectedText(); got != "No new static" {
		t.Fatalf("default selection = %q", got)
	}

	var events []string
	remove := sel.OnChange(func() { events = append(events, sel.SelectedText()) })

	if err := sel.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Value() != "42" {
		t.Fatalf("value = %q", sel.Value())
	}
	if err := sel.SelectText("  no NEW static "); err != nil {
		t.Fatalf("select text: %v", err)
	}

	remove()
	remove()
	if err := sel.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}

	want := []string{"Static 42 (webs-static-42-20240109-abcd123)", "No new static"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if sel.ListenerCount() != 0 {
		t.Fatalf("listener not removed")
	}

	if err := sel.Select(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := sel.SelectText("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	commit, _ := doc.ByID("commit")
	if err := commit.Select(0); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestSetCheckedDispatchesOnlyOnChange(t *testing.T) {
	doc := mustParse(t)
	box, _ := doc.ByID("stages-1")

	count := 0
	box.OnChange(func() { count++ })

	if err := box.SetChecked(true); err != nil {
		t.Fatalf("set checked: %v", err)
	}
	if count != 0 {
		t.Fatalf("unchanged state dispatched %d events", count)
	}
	if err := box.SetChecked(false); err != nil {
		t.Fatalf("uncheck: %v", err)
	}
	if box.Checked() || count != 1 {
		t.Fatalf("checked=%v count=%d", box.Checked(), count)
	}

	commit, _ := doc.ByID("commit")
	if err := commit.SetChecked(true); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestRadioGroupExclusive(t *testing.T) {
	doc := mustParse(t)
	a, _ := doc.ByID("env-a")
	b, _ := doc.ByID("env-b")

	if err := b.SetChecked(true); err != nil {
		t.Fatalf("check b: %v", err)
	}
	if a.Checked() || !b.Checked() {
		t.Fatalf("radio group not exclusive: a=%v b=%v", a.Checked(), b.Checked())
	}
}

func TestProgrammaticWritesDoNotDispatch(t *testing.T) {
	doc := mustParse(t)
	commit, _ := doc.ByID("commit")
	label, _ := doc.Query("label[for=commit]")

	count := 0
	commit.OnChange(func() { count++ })

	commit.SetValue("abcd123")
	commit.SetDisabled(true)
	label.SetText("LOCKED")

	if count != 0 {
		t.Fatalf("programmatic writes dispatched %d events", count)
	}
	if commit.Value() != "abcd123" || !commit.Disabled() || label.Text() != "LOCKED" {
		t.Fatalf("writes not applied: value=%q disabled=%v label=%q", commit.Value(), commit.Disabled(), label.Text())
	}

	commit.SetDisabled(false)
	if commit.Disabled() {
		t.Fatalf("disabled attribute not removed")
	}

	var buf strings.Builder
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `value="abcd123"`) || !strings.Contains(buf.String(), ">LOCKED</label>") {
		t.Fatalf("rendered document missing updates:\n%s", buf.String())
	}
}

func TestNestedDispatchIsQueued(t *testing.T) {
	doc := mustParse(t)
	sel, _ := doc.ByID("static")
	box, _ := doc.ByID("stages-0")

	var order []string
	sel.OnChange(func() {
		order = append(order, "select:start")
		if err := box.SetChecked(true); err != nil {
			t.Errorf("nested check: %v", err)
		}
		order = append(order, "select:end")
	})
	box.OnChange(func() { order = append(order, "box") })

	if err := sel.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}

	want := []string{"select:start", "select:end", "box"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func TestPanickingListenerDoesNotStopDispatch(t *testing.T) {
	doc := mustParse(t)
	sel, _ := doc.ByID("static")

	calls := 0
	sel.OnChange(func() {
		calls++
		if calls == 1 {
			panic("listener failed")
		}
	})
	after := 0
	sel.OnChange(func() { after++ })

	err := sel.Select(1)
	if !errors.Is(err, ErrListenerPanic) {
		t.Fatalf("expected ErrListenerPanic, got %v", err)
	}
	if got := sel.SelectedText(); !strings.HasPrefix(got, "Static 42") {
		t.Fatalf("selection not applied before dispatch: %q", got)
	}

	for _, index := range []int{0, 1} {
		if err := sel.Select(index); err != nil {
			t.Fatalf("select %d: %v", index, err)
		}
	}
	if calls != 3 || after != 3 {
		t.Fatalf("listener calls = %d and %d, want 3 each", calls, after)
	}
}

func TestPanicInQueuedEventIsReportedByOuterAction(t *testing.T) {
	doc := mustParse(t)
	sel, _ := doc.ByID("static")
	box, _ := doc.ByID("stages-0")

	sel.OnChange(func() {
		if err := box.SetChecked(true); err != nil {
			t.Errorf("queued check returned %v", err)
		}
	})
	box.OnChange(func() { panic("stage listener failed") })

	if err := sel.Select(1); !errors.Is(err, ErrListenerPanic) {
		t.Fatalf("expected ErrListenerPanic from the outer select, got %v", err)
	}
	if !box.Checked() {
		t.Fatalf("queued check was not applied")
	}
	if err := box.SetChecked(false); !errors.Is(err, ErrListenerPanic) {
		t.Fatalf("expected later dispatch to run the listener again, got %v", err)
	}
}
