package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-rolloutform/pkg/commitsync"
)

func (a *app) deriveCommand() *cobra.Command {
	var (
		option     string
		restricted bool
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the commit field state for a build option and stage",
		Example: `  rolloutform derive --option "Static 42 (webs-static-42-20240109-abcd123)"
  rolloutform derive --option "No new static" --profile prelive
  rolloutform derive --option "Build-1-2-3-abcd123)" --restricted`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := commitsync.DefaultProfile
			if name := strings.TrimSpace(a.profile); name != "" {
				var err error
				if profile, err = commitsync.ProfileByName(name); err != nil {
					return err
				}
			}

			state, err := commitsync.Derive(profile, commitsync.Inputs{OptionText: option, Restricted: restricted})
			if err != nil {
				return err
			}
			return writeJSON(cmd, struct {
				Profile string `json:"profile"`
				commitsync.State
			}{Profile: profile.Name, State: state})
		},
	}

	cmd.Flags().StringVar(&option, "option", "", "selected build option text")
	cmd.Flags().BoolVar(&restricted, "restricted", false, "treat the pre-live webs stage as checked")
	_ = cmd.MarkFlagRequired("option")
	return cmd
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
