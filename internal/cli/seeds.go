package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/pkg/cache"
)

// seedsCommand creates the seed store management command.
func (c *CLI) seedsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Manage remembered link seeds",
	}

	cmd.AddCommand(c.seedsClearCommand())
	cmd.AddCommand(c.seedsPathCommand())

	return cmd
}

// seedsClearCommand creates the "seeds clear" subcommand.
func (c *CLI) seedsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all seeds in the file store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != cache.BackendFile {
				printWarning("Seed store backend is %q; only the file store can be cleared here", cfg.Store.Backend)
				return nil
			}

			fc, err := cache.NewFileCache(cfg.Store.Dir)
			if err != nil {
				return fmt.Errorf("open seed store: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			if count == 0 {
				printInfo("Seed store is empty")
				return nil
			}
			printSuccess("Cleared %d seeds", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// seedsPathCommand creates the "seeds path" subcommand.
func (c *CLI) seedsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the seed store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cfg.Store.Dir)
			return nil
		},
	}
}
