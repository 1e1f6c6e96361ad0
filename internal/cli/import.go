package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/linkdepot/internal/entrypoint"
	"github.com/mrlokans/linkdepot/internal/importers"
	"github.com/mrlokans/linkdepot/internal/logger"
)

type importOptions struct {
	noFavicons bool
	dryRun     bool
}

func newImportCommand(st *state) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import shelves and links from a YAML, JSON or CSV file",
		Long: `Import shelves and links from a file.

The format is picked by extension: .json and .csv are parsed as such,
anything else as YAML. Shelves are matched by title, case-insensitively,
and links already on a shelf (same URL) are skipped.

Examples:
  linkdepot import bookmarks.yaml
  linkdepot import export.csv --no-favicons
  linkdepot import bookmarks.json --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.runImport(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noFavicons, "no-favicons", false, "Do not fetch favicons for imported links")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse the file and show what would be imported")
	return cmd
}

func (st *state) runImport(out io.Writer, path string, opts *importOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	converter, err := importers.Parse(data, path)
	if err != nil {
		return err
	}

	if opts.dryRun {
		bookmarks, source := converter.Convert()
		links := 0
		for _, b := range bookmarks {
			if b.URL != "" {
				links++
			}
		}
		fmt.Fprintf(out, "%s: %d bookmarks\n", source.Name, links)
		for _, b := range bookmarks {
			if b.URL == "" {
				fmt.Fprintf(out, "  [%s] (empty shelf)\n", b.Shelf)
				continue
			}
			fmt.Fprintf(out, "  [%s] %s <%s>\n", b.Shelf, b.Title, b.URL)
		}
		return nil
	}

	app, err := entrypoint.Open(st.cfg, st.log)
	if err != nil {
		return err
	}
	defer app.Close()

	var favicons importers.FaviconEnqueuer
	if !opts.noFavicons {
		favicons = app.Favicons
	}

	result, err := importers.NewPipeline(app.Shelves, app.Links, favicons).Import(converter)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	st.log.Info("Import finished",
		logger.String("source", result.Source),
		logger.Int("shelves_created", result.ShelvesCreated),
		logger.Int("links_imported", result.LinksImported),
		logger.Int("links_skipped", result.LinksSkipped),
	)

	fmt.Fprintf(out, "Source: %s\n", result.Source)
	fmt.Fprintf(out, "Shelves created: %d\n", result.ShelvesCreated)
	fmt.Fprintf(out, "Links imported: %d\n", result.LinksImported)
	fmt.Fprintf(out, "Links skipped: %d\n", result.LinksSkipped)
	if result.FaviconErrors > 0 {
		fmt.Fprintf(out, "Favicon errors: %d\n", result.FaviconErrors)
	}
	return nil
}
