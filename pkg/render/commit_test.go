package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rolloutform/pkg/commitref"
	"github.com/goliatone/go-rolloutform/pkg/commitsync"
	"github.com/goliatone/go-rolloutform/pkg/rollout"
)

func sampleDefinition(profile string) rollout.Definition {
	def := rollout.DefaultDefinition()
	def.Profile = profile
	def.Builds = []rollout.Build{
		{Value: "42", Label: "Static 42 (webs-static-42-20240109-abcd123)"},
		{Value: "43", Label: "Static 43 (pending)"},
	}
	return def
}

func TestCommitState(t *testing.T) {
	cases := []struct {
		name    string
		profile string
		values  map[string]any
		want    commitsync.State
	}{
		{
			name:    "no values",
			profile: "locked",
			want:    commitsync.State{Branch: commitsync.BranchDefault, Value: "master", Label: "Commit"},
		},
		{
			name:    "static by value",
			profile: "locked",
			values:  map[string]any{"static": "42"},
			want:    commitsync.State{Branch: commitsync.BranchStatic, Value: "abcd123", Label: "LOCKED to static commit for Webs deploy"},
		},
		{
			name:    "static by label with prelive stage",
			profile: "locked",
			values: map[string]any{
				"static": "static 42 (webs-static-42-20240109-abcd123)",
				"stages": []string{"deploy_db", commitsync.RestrictedStageValue},
			},
			want: commitsync.State{Branch: commitsync.BranchStaticRestricted, Value: "abcd123", Disabled: true, Label: "Commit (set to static commit)"},
		},
		{
			name:    "prelive profile",
			profile: "prelive",
			values:  map[string]any{"static": "42"},
			want:    commitsync.State{Branch: commitsync.BranchStatic, Value: "abcd123", Disabled: true},
		},
		{
			name:    "explicit commit on default branch",
			profile: "locked",
			values:  map[string]any{"commit": "release/2024.01"},
			want:    commitsync.State{Branch: commitsync.BranchDefault, Value: "release/2024.01", Label: "Commit"},
		},
		{
			name:    "explicit commit ignored when locked",
			profile: "prelive",
			values:  map[string]any{"static": "42", "commit": "feature"},
			want:    commitsync.State{Branch: commitsync.BranchStatic, Value: "abcd123", Disabled: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form, err := sampleDefinition(tc.profile).Form()
			if err != nil {
				t.Fatalf("form: %v", err)
			}
			got, err := CommitState(form, RenderOptions{Values: tc.values})
			if err != nil {
				t.Fatalf("commit state: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("state (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommitStateMalformedBuild(t *testing.T) {
	def := sampleDefinition("locked")
	def.Commit.Label = "Git ref"
	form, err := def.Form()
	if err != nil {
		t.Fatalf("form: %v", err)
	}

	got, err := CommitState(form, RenderOptions{Values: map[string]any{"static": "43"}})
	if !errors.Is(err, commitref.ErrTooFewTokens) {
		t.Fatalf("expected ErrTooFewTokens, got %v", err)
	}
	if got.Value != "master" || got.Disabled || got.Label != "Git ref" {
		t.Fatalf("fallback state = %+v", got)
	}

	strict, err := CommitState(form, RenderOptions{Values: map[string]any{"static": "43"}, Strict: true})
	if err == nil {
		t.Fatalf("expected error in strict mode")
	}
	if strict.Label != "Commit" {
		t.Fatalf("strict fallback should use profile default label, got %q", strict.Label)
	}
}

func TestResolveSelection(t *testing.T) {
	form, err := sampleDefinition("locked").Form()
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	sel := ResolveSelection(form, RenderOptions{Values: map[string]any{"static": "unknown", "stages": "deploy_webs"}})
	if sel.StaticIndex != 0 || sel.StaticText != rollout.SentinelLabel || sel.Restricted {
		t.Fatalf("selection = %+v", sel)
	}
	if diff := cmp.Diff([]string{"deploy_webs"}, sel.Stages); diff != "" {
		t.Fatalf("stages (-want +got):\n%s", diff)
	}
}
