package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskanalyzer/internal/auth"
	"github.com/idilsaglam/taskanalyzer/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth <login|logout|status>",
		Short: "Manage the scoring service token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageError{fmt.Errorf("usage: taskanalyzer auth <login|logout|status>")}
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Save a token read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := auth.NewStore()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && strings.TrimSpace(line) == "" {
				return fmt.Errorf("read token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if err := s.Set(line); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged in")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Delete the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := auth.NewStore()
			if err != nil {
				return err
			}
			if ti, _ := s.Get(); ti != nil && ti.Source == "env" {
				ui.OK(cmd.OutOrStdout(), "token is provided by "+auth.EnvToken+" (nothing to delete)")
				return nil
			}
			if err := s.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := auth.NewStore()
			if err != nil {
				return err
			}
			ti, err := s.Get()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ti == nil {
				fmt.Fprintln(out, "not logged in")
				fmt.Fprintln(out, "Run: taskanalyzer auth login")
				return nil
			}
			fmt.Fprintf(out, "source: %s\n", ti.Source)
			if !ti.CreatedAt.IsZero() {
				fmt.Fprintf(out, "saved: %s\n", ti.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
			}
			fmt.Fprintf(out, "env override: %s\n", auth.EnvToken)
			return nil
		},
	})
	return cmd
}
