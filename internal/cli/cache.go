package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/valobs/internal/store"
)

// DefaultCachePath is used by the cache commands when neither --cache nor
// the config names a database.
const DefaultCachePath = ".valobs/cache.db"

// CacheOptions holds flags for the cache commands.
type CacheOptions struct {
	*RootOptions
	Cache string
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the expansion cache",
	}
	cmd.PersistentFlags().StringVar(&opts.Cache, "cache", "", "expansion cache database (default: config, then "+DefaultCachePath+")")

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(opts, cmd, func(f *OutputFormatter, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return commandError(f, &LoadError{Code: ErrCodeCache, Message: err.Error()})
				}
				if f.JSON() {
					return f.Success(stats)
				}
				fmt.Fprintf(f.Writer, "entries: %d\nbytes:   %d\nhits:    %d\nstale:   %d\n", stats.Entries, stats.Bytes, stats.Hits, stats.Stale)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached templates in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(opts, cmd, func(f *OutputFormatter, st *store.Store) error {
				entries, err := st.Entries(cmd.Context())
				if err != nil {
					return commandError(f, &LoadError{Code: ErrCodeCache, Message: err.Error()})
				}
				if f.JSON() {
					if entries == nil {
						entries = []store.Entry{}
					}
					return f.Success(entries)
				}
				for _, e := range entries {
					fmt.Fprintf(f.Writer, "%s  %s  declarations=%d hits=%d\n", shortHash(e.SourceHash), e.Path, e.Declarations, e.Hits)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(opts, cmd, func(f *OutputFormatter, st *store.Store) error {
				n, err := st.Clear(cmd.Context())
				if err != nil {
					return commandError(f, &LoadError{Code: ErrCodeCache, Message: err.Error()})
				}
				opts.Logger.Debug().Int64("removed", n).Msg("cache cleared")
				if f.JSON() {
					return f.Success(map[string]int64{"removed": n})
				}
				fmt.Fprintf(f.Writer, "removed %d entr%s\n", n, plural(n, "y", "ies"))
				return nil
			})
		},
	})

	return cmd
}

func withCache(opts *CacheOptions, cmd *cobra.Command, fn func(*OutputFormatter, *store.Store) error) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path := opts.Cache
	if path == "" {
		cfg, err := loadConfig(opts.RootOptions)
		if err != nil {
			return commandError(formatter, err)
		}
		path = cfg.Cache
	}
	if path == "" {
		path = DefaultCachePath
	}

	st, err := openCache(opts.Dir, path)
	if err != nil {
		return commandError(formatter, err)
	}
	defer st.Close()
	return fn(formatter, st)
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
