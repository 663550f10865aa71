package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/marks/internal/culler"
	"github.com/nikbrunner/marks/internal/manager"
)

func newCheckCommand(a *app) *cobra.Command {
	var prune bool
	var concurrency int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check bookmark URLs for dead links",
		Long: `Request every bookmark URL and report dead (404/410) and unreachable ones.

404s on domains listed in cullExcludeDomains are reported as possibly private.
With --prune, dead bookmarks are deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *manager.Manager) error {
				results := culler.CheckURLs(m.Snapshot(), culler.Options{
					Concurrency:    concurrency,
					Timeout:        timeout,
					ExcludeDomains: a.config.CullExcludeDomains,
					OnProgress: func(completed, total int) {
						a.log.Debug("checked", zap.Int("completed", completed), zap.Int("total", total))
					},
				})

				dead := culler.Filter(results, culler.Dead)
				unreachable := culler.Filter(results, culler.Unreachable)

				for _, r := range dead {
					fmt.Fprintf(a.out, "dead        %d  %s  [%s]\n", r.StatusCode, r.Bookmark.URL, r.Category)
				}
				for _, r := range unreachable {
					fmt.Fprintf(a.out, "unreachable %s  %s  [%s]\n", r.Error, r.Bookmark.URL, r.Category)
				}
				fmt.Fprintf(a.out, "Checked %d bookmarks: %d dead, %d unreachable\n",
					len(results), len(dead), len(unreachable))

				if !prune {
					return nil
				}
				for _, r := range dead {
					if _, err := m.DeleteBookmark(r.Bookmark.ID); err != nil {
						return err
					}
				}
				fmt.Fprintf(a.out, "Deleted %d dead bookmarks\n", len(dead))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Delete dead bookmarks")
	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "Parallel requests")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	return cmd
}
