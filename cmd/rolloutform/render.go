package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-rolloutform/pkg/orchestrator"
	"github.com/goliatone/go-rolloutform/pkg/render"
	"github.com/goliatone/go-rolloutform/pkg/renderers/tui"
	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla"
)

type renderFlags struct {
	renderer      string
	output        string
	values        valuesFlag
	strict        bool
	format        string
	inlineRuntime bool
	noRuntime     bool
	runtimeSrc    string
	syncOnMount   bool
	defaultStyles bool
	action        string
}

func (a *app) renderCommand() *cobra.Command {
	f := &renderFlags{values: valuesFlag{}}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the rollout form as HTML or run it as a terminal prompt",
		Example: `  rolloutform render --output form.html
  rolloutform render -d rollout.yaml --values static=42 --values stages=deploy_only_prelive_webs
  rolloutform render --renderer tui --format pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			registry, err := a.registry(f)
			if err != nil {
				return err
			}
			options, req, err := a.request()
			if err != nil {
				return err
			}
			options = append(options, orchestrator.WithRegistry(registry))
			req.Renderer = f.renderer
			req.RenderOptions = render.RenderOptions{Values: f.values.Map(), Strict: f.strict}

			output, err := orchestrator.New(options...).Generate(ctx, req)
			if err != nil {
				return err
			}

			if f.output == "" {
				_, err = cmd.OutOrStdout().Write(output)
				return err
			}
			if dir := filepath.Dir(f.output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			if err := os.WriteFile(f.output, output, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.Info().Str("path", f.output).Int("bytes", len(output)).Msg("form written")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.renderer, "renderer", "r", "vanilla", "renderer to use (vanilla, tui)")
	flags.StringVarP(&f.output, "output", "o", "", "write output to `file` instead of stdout")
	flags.VarP(&f.values, "values", "v", "preselect a control as key=value; repeat for stages")
	flags.BoolVar(&f.strict, "strict", false, "reset the commit to the profile default when the build label is malformed")
	flags.StringVar(&f.format, "format", string(tui.OutputFormatJSON), "tui output format (json, form, pretty)")
	flags.BoolVar(&f.inlineRuntime, "inline-runtime", false, "inline the commit sync script instead of linking it")
	flags.BoolVar(&f.noRuntime, "no-runtime", false, "omit the commit sync script")
	flags.StringVar(&f.runtimeSrc, "runtime-src", "", "script URL for the commit sync runtime")
	flags.BoolVar(&f.syncOnMount, "sync-on-mount", false, "have the browser runtime sync the commit field on load")
	flags.BoolVar(&f.defaultStyles, "default-styles", false, "inline the default stylesheet")
	flags.StringVar(&f.action, "action", "", "form action URL")
	cmd.MarkFlagsMutuallyExclusive("inline-runtime", "no-runtime", "runtime-src")
	return cmd
}

func (a *app) registry(f *renderFlags) (*render.Registry, error) {
	var htmlOptions []vanilla.Option
	switch {
	case f.inlineRuntime:
		htmlOptions = append(htmlOptions, vanilla.WithInlineRuntime())
	case f.noRuntime:
		htmlOptions = append(htmlOptions, vanilla.WithoutRuntime())
	case f.runtimeSrc != "":
		htmlOptions = append(htmlOptions, vanilla.WithRuntimeScript(f.runtimeSrc))
	}
	if f.syncOnMount {
		htmlOptions = append(htmlOptions, vanilla.WithSyncOnMount(true))
	}
	if f.defaultStyles {
		htmlOptions = append(htmlOptions, vanilla.WithDefaultStyles())
	}
	if f.action != "" {
		htmlOptions = append(htmlOptions, vanilla.WithAction(f.action))
	}

	html, err := vanilla.New(htmlOptions...)
	if err != nil {
		return nil, err
	}

	tuiOptions := []tui.Option{tui.WithOutputFormat(tui.OutputFormat(f.format))}
	if a.promptDriver != nil {
		tuiOptions = append(tuiOptions, tui.WithPromptDriver(a.promptDriver))
	}
	terminal, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	for _, renderer := range []render.Renderer{html, terminal} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
