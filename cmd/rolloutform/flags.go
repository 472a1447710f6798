package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// valuesFlag collects repeated key=value pairs. A key given more than once
// becomes a list.
type valuesFlag map[string][]string

var _ pflag.Value = valuesFlag{}

func (v valuesFlag) String() string {
	parts := make([]string, 0, len(v))
	for _, key := range slices.Sorted(maps.Keys(v)) {
		for _, value := range v[key] {
			parts = append(parts, key+"="+value)
		}
	}
	return strings.Join(parts, ",")
}

func (v valuesFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", raw)
	}
	v[key] = append(v[key], strings.TrimSpace(value))
	return nil
}

func (v valuesFlag) Type() string {
	return "key=value"
}

// Map converts the pairs into render values.
func (v valuesFlag) Map() map[string]any {
	if len(v) == 0 {
		return nil
	}
	out := make(map[string]any, len(v))
	for key, values := range v {
		if len(values) == 1 {
			out[key] = values[0]
			continue
		}
		out[key] = slices.Clone(values)
	}
	return out
}

type eventKind string

const (
	eventSelect eventKind = "select"
	eventToggle eventKind = "toggle"
)

type event struct {
	kind   eventKind
	target string
}

// eventFlag appends to a list shared by several flags, so events replay in
// command-line order.
type eventFlag struct {
	kind   eventKind
	events *[]event
}

var _ pflag.Value = (*eventFlag)(nil)

func (f *eventFlag) String() string {
	if f.events == nil {
		return ""
	}
	var targets []string
	for _, ev := range *f.events {
		if ev.kind == f.kind {
			targets = append(targets, ev.target)
		}
	}
	return strings.Join(targets, ",")
}

func (f *eventFlag) Set(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s target is empty", f.kind)
	}
	*f.events = append(*f.events, event{kind: f.kind, target: raw})
	return nil
}

func (f *eventFlag) Type() string {
	return "string"
}
