package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrNotFound is returned when no element matches a lookup.
	ErrNotFound = errors.New("dom: element not found")
	// ErrUnsupported is returned when an action does not apply to the element.
	ErrUnsupported = errors.New("dom: action not supported by element")
	// ErrOutOfRange is returned for option indices outside the select.
	ErrOutOfRange = errors.New("dom: option index out of range")
	// ErrListenerPanic wraps a panic recovered from a change listener.
	ErrListenerPanic = errors.New("dom: change listener panicked")
)

// Document is a parsed HTML tree with change-event plumbing.
type Document struct {
	root *html.Node

	tree     sync.RWMutex
	elements map[*html.Node]*Element

	events      sync.Mutex
	queue       []*Element
	dispatching bool
	nextID      int
}

// Parse reads HTML from r and returns a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	return &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
	}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// ByID returns the element with the given id attribute.
func (d *Document) ByID(id string) (*Element, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	return d.Query(fmt.Sprintf("[id=%q]", id))
}

// Query returns the first element in document order matching the CSS
// selector, e.g. "#static", "label[for=commit]" or
// "input[name=stages][value=deploy_only_prelive_webs]".
func (d *Document) Query(selector string) (*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}

	d.tree.Lock()
	defer d.tree.Unlock()

	node := sel.MatchFirst(d.root)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return d.wrap(node), nil
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) ([]*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}

	d.tree.Lock()
	defer d.tree.Unlock()

	nodes := sel.MatchAll(d.root)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out, nil
}

func compile(selector string) (cascadia.Selector, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, errors.New("dom: empty selector")
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", selector, err)
	}
	return sel, nil
}

// Render writes the current document state as HTML.
func (d *Document) Render(w io.Writer) error {
	d.tree.RLock()
	defer d.tree.RUnlock()
	return html.Render(w, d.root)
}

// wrap must be called with d.tree held for writing.
func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n, listeners: make(map[int]func())}
	d.elements[n] = el
	return el
}

func (d *Document) addListener(el *Element, fn func()) func() {
	d.events.Lock()
	id := d.nextID
	d.nextID++
	el.listeners[id] = fn
	el.order = append(el.order, id)
	d.events.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.events.Lock()
			defer d.events.Unlock()
			delete(el.listeners, id)
			for i, v := range el.order {
				if v == id {
					el.order = append(el.order[:i], el.order[i+1:]...)
					break
				}
			}
		})
	}
}

// dispatch queues a change event for el and drains the queue unless another
// dispatch is already in progress, in which case it returns nil at once. A
// panicking listener is recovered and reported as ErrListenerPanic; the
// remaining listeners and later events still run.
func (d *Document) dispatch(el *Element) error {
	d.events.Lock()
	d.queue = append(d.queue, el)
	if d.dispatching {
		d.events.Unlock()
		return nil
	}
	d.dispatching = true
	d.events.Unlock()

	var errs []error
	for {
		d.events.Lock()
		if len(d.queue) == 0 {
			d.dispatching = false
			d.events.Unlock()
			return errors.Join(errs...)
		}
		target := d.queue[0]
		d.queue = d.queue[1:]
		handlers := make([]func(), 0, len(target.order))
		for _, id := range target.order {
			handlers = append(handlers, target.listeners[id])
		}
		d.events.Unlock()

		for _, fn := range handlers {
			if err := invoke(target, fn); err != nil {
				errs = append(errs, err)
			}
		}
	}
}

func invoke(target *Element, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: change on #%s: %v", ErrListenerPanic, target.ID(), r)
		}
	}()
	fn()
	return nil
}

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func textContent(n *html.Node) string {
	var buf bytes.Buffer
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
		return true
	})
	return buf.String()
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, value string) {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			continue
		}
		out = append(out, attr)
	}
	n.Attr = out
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}
