package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the default-branch cache",
		Long: `Refreshing an existing clone asks its remote for the default branch.
The answer is cached per clone URL so later runs can skip the lookup.`,
	}

	cmd.AddCommand(c.cacheListCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheListCommand creates the "cache list" subcommand.
func (c *CLI) cacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the cached default branch of each remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openBranchStore(0, false)
			if err != nil {
				return err
			}
			recs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo(cmd.ErrOrStderr(), "Cache is empty")
				return nil
			}
			w := cmd.OutOrStdout()
			for _, rec := range recs {
				fmt.Fprintln(w, StyleValue.Render(rec.URL))
				printKeyValue(w, "  branch", rec.Branch)
				printKeyValue(w, "  detected", rec.DetectedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every cached default branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openBranchStore(0, false)
			if err != nil {
				return err
			}
			count, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.ErrOrStderr()
			if count == 0 {
				printInfo(w, "Cache is empty")
				return nil
			}
			printSuccess(w, "Cleared %d cached default branches", count)
			if dir, err := branchCacheDir(); err == nil {
				printDetail(w, "Directory: %s", dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := branchCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
