package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-rolloutform/pkg/renderers/vanilla"
)

func (a *app) assetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "assets <dir>",
		Short:   "Copy the browser runtime and stylesheet into a directory",
		Example: `  rolloutform assets ./public/runtime`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return copyAssets(zerolog.Ctx(cmd.Context()), vanilla.AssetsFS(), args[0])
		},
	}
}

func copyAssets(logger *zerolog.Logger, src fs.FS, dest string) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dest, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(src, path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", path, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write asset %s: %w", target, err)
		}
		logger.Info().Str("asset", path).Str("path", target).Msg("asset copied")
		return nil
	})
}
