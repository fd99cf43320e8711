package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/standardize/pkg/config"
)

// reposCommand creates the repos command.
func (c *CLI) reposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Manage the local repository clones",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the clone directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.RepositoriesDir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every clone",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.cleanRepositories(cmd, cfg)
		},
	})

	return cmd
}

func (c *CLI) cleanRepositories(cmd *cobra.Command, cfg *config.Config) error {
	w := cmd.ErrOrStderr()
	if _, err := os.Stat(cfg.RepositoriesDir); os.IsNotExist(err) {
		printInfo(w, "No clones to remove")
		return nil
	}
	provider, err := c.newProvider(cfg, true)
	if err != nil {
		return err
	}
	if err := provider.Clean(); err != nil {
		return err
	}
	printSuccess(w, "Removed clones")
	printKeyValue(w, "Directory", cfg.RepositoriesDir)
	return nil
}
