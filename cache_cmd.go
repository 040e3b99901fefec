package main

import (
	"errors"
	"fmt"

	"github.com/dgnsrekt/narrate/internal/cache"
	"github.com/spf13/cobra"
)

var (
	cacheClear bool
	cachePrune bool

	cacheCmd = &cobra.Command{
		Use:     "cache",
		Short:   "Show or clear the rendered audio cache",
		Long:    paragraph(fmt.Sprintf("\n%s how much rendered audio is cached on disk, remove expired entries or clear it.", keyword("Show"))),
		Example: paragraph("narrate cache\nnarrate cache --prune\nnarrate cache --clear"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Dir == "" {
				return errors.New("no cache directory configured")
			}

			cc := cache.DefaultConfig(cfg.Cache.Dir, max(cfg.Cache.MaxSize, 1))
			cc.MemoryCapacity = 0
			cc.CleanupInterval = 0
			m, err := cache.NewManager(cc)
			if err != nil {
				return err
			}
			defer m.Close() //nolint:errcheck

			out := cmd.OutOrStdout()
			switch {
			case cacheClear:
				if err := m.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared", cfg.Cache.Dir)
				return nil
			case cachePrune:
				m.Cleanup()
			}

			_, disk := m.LevelStats()
			fmt.Fprintf(out, "%s %s\n", keyword(cfg.Cache.Dir), faint(disk.String()))
			if !cfg.Cache.Enabled {
				fmt.Fprintln(out, faint("Caching is disabled in the configuration."))
			}
			return nil
		},
	}
)

func init() {
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "remove every cached entry")
	cacheCmd.Flags().BoolVar(&cachePrune, "prune", false, "remove entries older than a week")
}
