package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Regenerate CHANGELOG.md with git-chglog",
		Long: `Regenerate the changelog from conventional commit messages.

Requires git-chglog in PATH:
  go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			next, _ := cmd.Flags().GetString("next")

			if _, err := exec.LookPath("git-chglog"); err != nil {
				return fmt.Errorf("git-chglog not installed: %w", err)
			}
			chglogArgs := changelogArgs(output, next, args)
			slog.Info("running git-chglog", "args", chglogArgs)
			run := exec.CommandContext(cmd.Context(), "git-chglog", chglogArgs...)
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			if err := run.Run(); err != nil {
				return fmt.Errorf("could not generate changelog: %w", err)
			}
			slog.Info("changelog written", "output", output)
			return nil
		},
	}
	cmd.Flags().String("next", "", "tag of the upcoming release, e.g. v0.2.0")
	cmd.Flags().String("output", "CHANGELOG.md", "output file")
	return cmd
}

func changelogArgs(output, next string, query []string) []string {
	args := []string{"--output", output}
	if next != "" {
		args = append(args, "--next-tag", next)
	}
	return append(args, query...)
}
