package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowfit/rowfit/pkg/cache"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	var dir string
	cmd.PersistentFlags().StringVar(&dir, "cache-dir", "", "result cache directory (default: per-user cache dir)")

	cmd.AddCommand(newCacheInfoCmd(&dir))
	cmd.AddCommand(newCacheClearCmd(&dir))
	cmd.AddCommand(newCachePathCmd(&dir))
	return cmd
}

// openFileCache opens the file backend the cache subcommands manage.
func openFileCache(dir string) (*cache.FileCache, error) {
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c.(*cache.FileCache), nil
}

// newCacheInfoCmd creates the "cache info" subcommand.
func newCacheInfoCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cached result count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openFileCache(*dir)
			if err != nil {
				return err
			}
			entries, bytes, err := c.Stats()
			if err != nil {
				return err
			}
			printInfo("%d cached results, %.1f KiB", entries, float64(bytes)/1024)
			printDetail("Directory: %s", c.Dir())
			return nil
		},
	}
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openFileCache(*dir)
			if err != nil {
				return err
			}
			entries, _, err := c.Stats()
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared %d cached results", entries)
			printDetail("Directory: %s", c.Dir())
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openFileCache(*dir)
			if err != nil {
				return err
			}
			fmt.Println(c.Dir())
			return nil
		},
	}
}
