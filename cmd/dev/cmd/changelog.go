package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

const chglog = "git-chglog"

func ChangelogCmd() *cobra.Command {
	var next, output, tag string
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "generate CHANGELOG.md from conventional commits",
		Long: `Generate the changelog with git-chglog.

Install it with:
  go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest

Examples:
  dev changelog
  dev changelog --next v0.2.0
  dev changelog --tag v0.1.0 --output CHANGES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := exec.LookPath(chglog); err != nil {
				return fmt.Errorf("%s not installed: %w", chglog, err)
			}
			chglogArgs := changelogArgs(next, output, tag)
			slog.Info("running "+chglog, "args", chglogArgs)
			run := exec.CommandContext(cmd.Context(), chglog, chglogArgs...)
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			if err := run.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			slog.Info("changelog generated", "output", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&next, "next", "", "next version tag, e.g. v0.2.0")
	cmd.Flags().StringVar(&output, "output", "CHANGELOG.md", "output file path")
	cmd.Flags().StringVar(&tag, "tag", "", "generate changelog for a single tag")
	return cmd
}

func changelogArgs(next, output, tag string) []string {
	var args []string
	if next != "" {
		args = append(args, "--next-tag", next)
	}
	if output == "" {
		output = "CHANGELOG.md"
	}
	args = append(args, "--output", output)
	if tag != "" {
		args = append(args, tag)
	}
	return args
}
