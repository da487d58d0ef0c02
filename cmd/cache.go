package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/cache"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/view"
	pkglog "github.com/weiawesome/wes-io-live/spellcheck-service/pkg/log"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached results and spellcheck payloads",
	}
	cmd.AddCommand(cacheInvalidateCmd())
	return cmd
}

func cacheInvalidateCmd() *cobra.Command {
	var tags []string
	var indexes []string

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop cache entries carrying any of the given tags",
		Long: `Drop cache entries carrying any of the given tags.

--index NAME is shorthand for --tag search_api_list:NAME, which every
view built on that index carries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, index := range indexes {
				tags = append(tags, view.IndexListTag(index))
			}
			if len(tags) == 0 {
				return errors.New("at least one --tag or --index is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := cache.New(cfg.Cache, cfg.Redis)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := store.InvalidateTags(ctx, tags...); err != nil {
				return err
			}

			logger := pkglog.L()
			logger.Info().Strs(pkglog.FieldTags, tags).Msg("cache invalidated")
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Cache tag to invalidate (repeatable)")
	cmd.Flags().StringArrayVar(&indexes, "index", nil, "Index whose lists to invalidate (repeatable)")

	return cmd
}
