package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/exporter"
	"github.com/nikbrunner/marks/internal/manager"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import a browser bookmarks HTML file, replacing all bookmarks",
		Long: `Import a Netscape bookmark HTML file exported by a browser.

Every folder except the bookmarks bar becomes a category containing all links
beneath it. Empty folders are skipped. All existing bookmarks and categories
are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			return a.withManager(func(m *manager.Manager) error {
				stats, err := m.ImportHTML(file)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Imported %d bookmarks, %d categories\n", stats.Bookmarks, stats.Categories)
				return nil
			})
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks to a browser bookmarks HTML file",
		Long: `Export all categories as folders of a Netscape bookmark HTML file.

Without a path the file is written to ~/Downloads/bookmarks_<date>.html.
Use "-" to write to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			}

			return a.withManager(func(m *manager.Manager) error {
				html := m.ExportHTML()

				if outputPath == "-" {
					_, err := fmt.Fprint(a.out, html)
					return err
				}

				if outputPath == "" {
					var err error
					outputPath, err = exporter.DefaultExportPath()
					if err != nil {
						return fmt.Errorf("default export path: %w", err)
					}
				}

				if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
					return err
				}
				if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
					return fmt.Errorf("write %s: %w", outputPath, err)
				}

				fmt.Fprintf(a.out, "Exported %d bookmarks, %d categories to %s\n",
					m.TotalBookmarks(), len(m.Categories()), outputPath)
				return nil
			})
		},
	}
}
