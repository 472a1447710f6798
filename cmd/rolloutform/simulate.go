package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-rolloutform/pkg/commitsync"
	"github.com/goliatone/go-rolloutform/pkg/dom"
	"github.com/goliatone/go-rolloutform/pkg/orchestrator"
	"github.com/goliatone/go-rolloutform/pkg/render"
	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla"
)

// simulation is the commit field as it reads after the replayed events.
type simulation struct {
	Profile  string `json:"profile"`
	Events   int    `json:"events"`
	Static   string `json:"static"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
	Label    string `json:"label,omitempty"`
}

func (a *app) simulateCommand() *cobra.Command {
	var (
		events      []event
		values      = valuesFlag{}
		strict      bool
		syncOnMount bool
		printHTML   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay build and stage changes against the rendered form",
		Long: `simulate renders the form, mounts the commit synchronizer on the parsed
document and replays --select and --toggle events in the order given. The
resulting commit field is printed as JSON.`,
		Example: `  rolloutform simulate --select "Static 42 (webs-static-42-20240109-abcd123)" --toggle deploy_only_prelive_webs
  rolloutform simulate --profile prelive --select 1 --toggle deploy_only_prelive_webs --html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			options, req, err := a.request()
			if err != nil {
				return err
			}
			form, err := orchestrator.New(options...).Form(ctx, req)
			if err != nil {
				return err
			}
			profile, err := commitsync.ProfileByName(form.Profile)
			if err != nil {
				return err
			}

			html, err := vanilla.New(vanilla.WithoutRuntime())
			if err != nil {
				return err
			}
			markup, err := html.Render(ctx, form, render.RenderOptions{Values: values.Map(), Strict: strict})
			if err != nil {
				return err
			}

			doc, err := dom.Parse(bytes.NewReader(markup))
			if err != nil {
				return err
			}
			sync, err := commitsync.MountDocument(doc,
				commitsync.WithProfile(profile),
				commitsync.WithLogger(*logger),
				commitsync.WithStrict(strict),
				commitsync.WithSyncOnMount(syncOnMount),
			)
			if err != nil {
				return err
			}
			defer sync.Unmount()

			for _, ev := range events {
				if err := replay(doc, ev); err != nil {
					return err
				}
				logger.Debug().Str("event", string(ev.kind)).Str("target", ev.target).Msg("event replayed")
			}

			result, err := readSimulation(doc, profile)
			if err != nil {
				return err
			}
			result.Events = len(events)

			if printHTML {
				if err := doc.Render(cmd.OutOrStdout()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return writeJSON(cmd, result)
		},
	}

	flags := cmd.Flags()
	flags.Var(&eventFlag{kind: eventSelect, events: &events}, "select", "select a build by option text or index")
	flags.Var(&eventFlag{kind: eventToggle, events: &events}, "toggle", "toggle the stage checkbox with this value")
	flags.VarP(&values, "values", "v", "initial control values as key=value")
	flags.BoolVar(&strict, "strict", false, "reset the commit to the profile default on malformed build labels")
	flags.BoolVar(&syncOnMount, "sync-on-mount", false, "sync the commit field when the synchronizer mounts")
	flags.BoolVar(&printHTML, "html", false, "print the final document before the state")
	return cmd
}

func replay(doc *dom.Document, ev event) error {
	switch ev.kind {
	case eventSelect:
		static, err := doc.ByID("static")
		if err != nil {
			return err
		}
		if index, err := strconv.Atoi(strings.TrimSpace(ev.target)); err == nil {
			return static.Select(index)
		}
		return static.SelectText(ev.target)
	case eventToggle:
		stage, err := doc.Query(fmt.Sprintf("input[name=stages][value=%q]", strings.TrimSpace(ev.target)))
		if err != nil {
			return fmt.Errorf("toggle %q: %w", ev.target, err)
		}
		return stage.SetChecked(!stage.Checked())
	default:
		return fmt.Errorf("unknown event %q", ev.kind)
	}
}

func readSimulation(doc *dom.Document, profile commitsync.Profile) (simulation, error) {
	static, err := doc.Query(profile.Selectors.Static)
	if err != nil {
		return simulation{}, err
	}
	commit, err := doc.Query(profile.Selectors.Commit)
	if err != nil {
		return simulation{}, err
	}

	result := simulation{
		Profile:  profile.Name,
		Static:   static.SelectedText(),
		Value:    commit.Value(),
		Disabled: commit.Disabled(),
	}
	if profile.Selectors.Label != "" {
		if label, err := doc.Query(profile.Selectors.Label); err == nil {
			result.Label = strings.TrimSpace(label.Text())
		}
	}
	return result, nil
}
