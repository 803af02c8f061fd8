package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghoshnapatra/ghoshna/pkg/compress"
	"github.com/ghoshnapatra/ghoshna/pkg/config"
	"github.com/ghoshnapatra/ghoshna/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past exports",
	}
	cmd.AddCommand(c.historyListCommand())
	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent exports, newest first",
		Long: `List recent exports, newest first.

History records only sizes, qualities and timings, plus a hash of the
record. Names and other field values are never stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.History.Backend == config.BackendNone {
				printInfo("History is disabled")
				return nil
			}
			if limit <= 0 {
				limit = cfg.History.Limit
			}

			ctx := cmd.Context()
			store, err := c.newHistory(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if len(entries) == 0 {
				printInfo("No exports yet")
				printNextStep("Create one", "ghoshna export --help")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), historyTable(entries, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries (default from config)")
	return cmd
}

// historyTable renders entries as a table.
func historyTable(entries []history.Entry, now time.Time) string {
	t := newTable("When", "Engine", "Size", "Quality", "Window", "Source", "Record")
	for _, e := range entries {
		window := "yes"
		if !e.InWindow {
			window = StyleDim.Render("no")
		}
		source := iconFresh
		if e.Cached {
			source = iconCached
		}
		hash := e.RecordHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		t.Row(
			formatRelativeTime(e.CreatedAt, now),
			e.Engine,
			StyleNumber.Render(formatKB(e.Size)),
			fmt.Sprintf("%d", compress.JPEGQuality(e.Quality)),
			window,
			source,
			StyleDim.Render(hash),
		)
	}
	return t.Render()
}

// formatRelativeTime renders t relative to now.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
