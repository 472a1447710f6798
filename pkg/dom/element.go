package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element wraps a node of a Document. Elements are unique per node, so
// listeners registered through one lookup are visible through any other.
type Element struct {
	doc  *Document
	node *html.Node

	// guarded by doc.events
	listeners map[int]func()
	order     []int
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute, or "" when absent.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.tree.RLock()
	defer e.doc.tree.RUnlock()
	return getAttr(e.node, name)
}

// Value returns the current value. For selects it is the value of the
// selected option (its text when the option has no value attribute).
func (e *Element) Value() string {
	e.doc.tree.RLock()
	defer e.doc.tree.RUnlock()

	if isElement(e.node, atom.Select) {
		opt := selectedOption(e.node)
		if opt == nil {
			return ""
		}
		if v, ok := getAttr(opt, "value"); ok {
			return v
		}
		return textContent(opt)
	}
	if isElement(e.node, atom.Textarea) {
		return textContent(e.node)
	}
	v, _ := getAttr(e.node, "value")
	return v
}

// SetValue writes the value attribute without dispatching a change event.
func (e *Element) SetValue(value string) {
	e.doc.tree.Lock()
	defer e.doc.tree.Unlock()
	setAttr(e.node, "value", value)
}

// Disabled reports whether the disabled attribute is present.
func (e *Element) Disabled() bool {
	_, ok := e.Attr("disabled")
	return ok
}

// SetDisabled toggles the disabled attribute without dispatching events.
func (e *Element) SetDisabled(disabled bool) {
	e.doc.tree.Lock()
	defer e.doc.tree.Unlock()
	if disabled {
		setAttr(e.node, "disabled", "")
		return
	}
	removeAttr(e.node, "disabled")
}

// Text returns the element's text content.
func (e *Element) Text() string {
	e.doc.tree.RLock()
	defer e.doc.tree.RUnlock()
	return textContent(e.node)
}

// SetText replaces the element's children with a single text node.
func (e *Element) SetText(text string) {
	e.doc.tree.Lock()
	defer e.doc.tree.Unlock()
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Options returns the text of every option of a select element.
func (e *Element) Options() []string {
	e.doc.tree.RLock()
	defer e.doc.tree.RUnlock()

	var out []string
	for _, opt := range options(e.node) {
		out = append(out, textContent(opt))
	}
	return out
}

// SelectedText returns the text of the selected option. A select without an
// explicitly selected option reports its first option, as browsers do.
func (e *Element) SelectedText() string {
	e.doc.tree.RLock()
	defer e.doc.tree.RUnlock()

	opt := selectedOption(e.node)
	if opt == nil {
		return ""
	}
	return textContent(opt)
}

// Select marks the option at index as selected and dispatches a change event.
func (e *Element) Select(index int) error {
	e.doc.tree.Lock()
	if !isElement(e.node, atom.Select) {
		e.doc.tree.Unlock()
		return fmt.Errorf("%w: select on <%s>", ErrUnsupported, e.node.Data)
	}
	opts := options(e.node)
	if index < 0 || index >= len(opts) {
		e.doc.tree.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(opts))
	}
	for i, opt := range opts {
		if i == index {
			setAttr(opt, "selected", "")
			continue
		}
		removeAttr(opt, "selected")
	}
	e.doc.tree.Unlock()

	return e.doc.dispatch(e)
}

// SelectText selects the first option whose trimmed text matches text
// case-insensitively.
func (e *Element) SelectText(text string) error {
	want := strings.TrimSpace(text)
	for i, option := range e.Options() {
		if strings.EqualFold(strings.TrimSpace(option), want) {
			return e.Select(i)
		}
	}
	return fmt.Errorf("%w: option %q", ErrNotFound, text)
}

// Checked reports whether a checkbox or radio input is checked.
func (e *Element) Checked() bool {
	_, ok := e.Attr("checked")
	return ok
}

// SetChecked changes the checked state of a checkbox or radio input and
// dispatches a change event when the state changed. Checking a radio input
// unchecks the other radios sharing its name.
func (e *Element) SetChecked(checked bool) error {
	e.doc.tree.Lock()
	kind, _ := getAttr(e.node, "type")
	kind = strings.ToLower(kind)
	if !isElement(e.node, atom.Input) || (kind != "checkbox" && kind != "radio") {
		e.doc.tree.Unlock()
		return fmt.Errorf("%w: check on <%s type=%q>", ErrUnsupported, e.node.Data, kind)
	}

	_, was := getAttr(e.node, "checked")
	if was == checked {
		e.doc.tree.Unlock()
		return nil
	}
	if !checked {
		removeAttr(e.node, "checked")
		e.doc.tree.Unlock()
		return e.doc.dispatch(e)
	}

	setAttr(e.node, "checked", "")
	if kind == "radio" {
		name, _ := getAttr(e.node, "name")
		walk(e.doc.root, func(n *html.Node) bool {
			if n == e.node || !isElement(n, atom.Input) {
				return true
			}
			otherKind, _ := getAttr(n, "type")
			otherName, _ := getAttr(n, "name")
			if strings.EqualFold(otherKind, "radio") && otherName == name {
				removeAttr(n, "checked")
			}
			return true
		})
	}
	e.doc.tree.Unlock()

	return e.doc.dispatch(e)
}

// OnChange registers fn for change events on the element. The returned
// function removes the listener; calling it more than once is harmless.
func (e *Element) OnChange(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}
	return e.doc.addListener(e, fn)
}

// ListenerCount reports how many change listeners are registered.
func (e *Element) ListenerCount() int {
	e.doc.events.Lock()
	defer e.doc.events.Unlock()
	return len(e.order)
}

// OuterHTML renders the element and its children.
func (e *Element) OuterHTML() (string, error) {
	e.doc.tree.RLock()
	defer e.doc.tree.RUnlock()

	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return "", fmt.Errorf("dom: render element: %w", err)
	}
	return buf.String(), nil
}

func options(n *html.Node) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if isElement(c, atom.Option) {
			out = append(out, c)
		}
		return true
	})
	return out
}

func selectedOption(n *html.Node) *html.Node {
	opts := options(n)
	if len(opts) == 0 {
		return nil
	}
	for _, opt := range opts {
		if _, ok := getAttr(opt, "selected"); ok {
			return opt
		}
	}
	return opts[0]
}
