package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-rolloutform/internal/logging"
	"github.com/goliatone/go-rolloutform/pkg/orchestrator"
	"github.com/goliatone/go-rolloutform/pkg/renderers/tui"
	"github.com/goliatone/go-rolloutform/pkg/rollout"
)

// app carries state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger

	logLevel       string
	logFormat      string
	definitionPath string
	definitionsDir string
	definitionID   string
	profile        string
	presetPath     string

	// promptDriver replaces the survey driver for the tui renderer.
	promptDriver tui.PromptDriver
}

// execute runs the CLI and logs any command error before returning it.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	a.logger, _ = logging.New(logging.Options{Out: stderr})

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.logger.Error().Err(err).Msg("rolloutform failed")
		return err
	}
	return nil
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rolloutform",
		Short: "Render rollout request forms with a synchronized commit field",
		Long: `rolloutform renders rollout request forms and keeps the commit field in step
with the selected static build and the pre-live webs stage.

Forms come from JSON or YAML definitions; without one the stock seven-stage
rollout form is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Level: a.logLevel, Format: a.logFormat, Out: a.stderr})
			if err != nil {
				return err
			}
			a.logger = logger
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); defaults to $"+logging.EnvLevel+" or info")
	flags.StringVar(&a.logFormat, "log-format", logging.FormatConsole, "log format (console, json)")
	flags.StringVarP(&a.definitionPath, "definition", "d", "", "rollout definition file (JSON or YAML)")
	flags.StringVar(&a.definitionsDir, "definitions", "", "directory of rollout definitions, used with --id")
	flags.StringVar(&a.definitionID, "id", "", "definition id to render from --definitions")
	flags.StringVarP(&a.profile, "profile", "p", "", "commit sync profile (prelive, locked); overrides the definition")
	flags.StringVar(&a.presetPath, "preset", "", "JSON or YAML preset overriding form copy")

	root.AddCommand(
		a.renderCommand(),
		a.deriveCommand(),
		a.simulateCommand(),
		a.assetsCommand(),
	)
	return root
}

// request builds the orchestrator options and request for the definition
// flags.
func (a *app) request() ([]orchestrator.Option, orchestrator.Request, error) {
	var (
		options []orchestrator.Option
		req     = orchestrator.Request{Profile: a.profile}
	)

	switch {
	case a.definitionPath != "" && a.definitionsDir != "":
		return nil, req, fmt.Errorf("use either --definition or --definitions, not both")
	case a.definitionPath != "":
		def, err := rollout.LoadFile(a.definitionPath)
		if err != nil {
			return nil, req, err
		}
		req.Definition = &def
	case a.definitionsDir != "":
		if strings.TrimSpace(a.definitionID) == "" {
			return nil, req, fmt.Errorf("--definitions requires --id")
		}
		options = append(options, orchestrator.WithDefinitionsFS(os.DirFS(a.definitionsDir)))
		req.DefinitionID = a.definitionID
	}

	if a.presetPath != "" {
		data, err := os.ReadFile(a.presetPath)
		if err != nil {
			return nil, req, fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, req, err
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}
	return options, req, nil
}
