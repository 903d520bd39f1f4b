package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chouse/internal/config"
	"github.com/matzehuels/chouse/pkg/archive"
)

// lookupCommand creates the "lookup" command.
func (c *CLI) lookupCommand() *cobra.Command {
	var (
		archiveRecords bool
		compact        bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <company-number>...",
		Short: "Look up companies by number",
		Long: `Look up one or more companies by company number and print each profile as JSON.

Linked resources (officers, filing history, charges, ...) are fetched and
inlined under their relation name. Unknown companies print {}.`,
		Example: `  chouse lookup 00000006
  chouse lookup 00000006 SC123456 --compact
  chouse lookup 00000006 --archive`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			client, closeCache, err := c.newClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			var store *archive.MongoStore
			if archiveRecords {
				if store, err = openArchive(ctx, cfg); err != nil {
					return err
				}
				defer store.Close(context.Background())
			}

			prog := newProgress(logger)
			found := 0
			for _, id := range args {
				company, err := client.LookupByID(ctx, id)
				if err != nil {
					return fmt.Errorf("lookup %s: %w", id, err)
				}
				if company.IsEmpty() {
					printWarning("Company %s not found", id)
				} else {
					found++
				}
				if err := writeJSON(cmd.OutOrStdout(), company, compact); err != nil {
					return err
				}
				if store != nil && !company.IsEmpty() {
					if _, err := store.Save(ctx, company); err != nil {
						return err
					}
					printSuccess("Archived %s", id)
				}
			}
			prog.done(fmt.Sprintf("Found %d of %d companies", found, len(args)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&archiveRecords, "archive", false, "store found companies in MongoDB (archive.mongo_uri)")
	cmd.Flags().BoolVar(&compact, "compact", false, "print one JSON object per line")
	return cmd
}

// searchCommand creates the "search" command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		asTable bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "search <company-name>",
		Short: "Search companies by name and look up every hit",
		Example: `  chouse search "test ltd"
  chouse search "test ltd" --table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			client, closeCache, err := c.newClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			var spinner *Spinner
			if asTable {
				spinner = newSpinner(ctx, statusOut, fmt.Sprintf("Searching for %q...", args[0]))
				spinner.Start()
			}

			prog := newProgress(logger)
			results, err := client.SearchByName(ctx, args[0])
			if spinner != nil {
				if err != nil {
					spinner.StopWithError("Search failed")
				} else {
					spinner.Stop()
				}
			}
			if err != nil {
				return fmt.Errorf("search %q: %w", args[0], err)
			}
			prog.done(fmt.Sprintf("Found %d companies", len(results)))

			if !asTable {
				return writeJSON(cmd.OutOrStdout(), results, compact)
			}
			if len(results) == 0 {
				printInfo("No companies match %q", args[0])
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), companyTable(results))
			return err
		},
	}

	cmd.Flags().BoolVar(&asTable, "table", false, "print a summary table instead of JSON")
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON without indentation")
	return cmd
}

// fetchCommand creates the "fetch" command.
func (c *CLI) fetchCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a registry resource as-is",
		Long: `Fetch any registry resource and print the decoded JSON unchanged.
Relative URLs are resolved against the base URL; links are not expanded.`,
		Example: `  chouse fetch /company/00000006/officers`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			client, closeCache, err := c.newClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			res, err := client.FetchURL(ctx, args[0])
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), res, compact)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON without indentation")
	return cmd
}

func openArchive(ctx context.Context, cfg config.Config) (*archive.MongoStore, error) {
	return archive.NewMongoStore(ctx, archive.MongoOptions{
		URI:        cfg.Archive.MongoURI,
		Database:   cfg.Archive.Database,
		Collection: cfg.Archive.Collection,
	})
}
