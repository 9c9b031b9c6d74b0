package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/marcelojr/premiacao/internal/app/presenter"
	"github.com/marcelojr/premiacao/internal/app/stats"
	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/clock"
	"github.com/marcelojr/premiacao/internal/platform/config"
	"github.com/marcelojr/premiacao/internal/platform/logger"
	"github.com/marcelojr/premiacao/internal/platform/migrations"
	"github.com/marcelojr/premiacao/internal/platform/storage/database"
	redisstorage "github.com/marcelojr/premiacao/internal/platform/storage/redis"
)

var errRedisDisabled = errors.New("redis desabilitado (REDIS_ENABLED=false)")

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "premiacao-admin",
		Short:         "Administração das nominações",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				logger.SetLevel(logger.ParseLevel(logLevel))
			}
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "sobrescreve LOG_LEVEL")

	cmd.AddCommand(newMigrateCmd(), newNominationsCmd(), newStatsCmd(), newCountersCmd())
	return cmd
}

// withDB carrega a configuração e abre o banco pelo tempo do comando.
func withDB(ctx context.Context, fn func(cfg config.Config, db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return fn(cfg, db)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrations pendentes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(_ config.Config, db *gorm.DB) error {
				if err := migrations.Run(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations aplicadas")
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rollback",
		Short: "Desfaz a última migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(_ config.Config, db *gorm.DB) error {
				if err := migrations.RollbackLast(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ultima migration desfeita")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista as migrations conhecidas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range migrations.List() {
				fmt.Fprintln(cmd.OutOrStdout(), m.ID)
			}
			return nil
		},
	})
	return cmd
}

func newNominationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nominations",
		Short: "Encerra ou reabre nominações",
	}

	action := func(use, short string, run func(*voting.Service, context.Context, domain.NominationID) (domain.Nomination, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>...",
			Short: short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(cfg config.Config, db *gorm.DB) error {
					svc := voting.NewService(voting.RepositoriesFor(db), clock.NewSystemClock(),
						voting.WithRequireActive(cfg.RequireActiveNomination))
					for _, id := range args {
						n, err := run(svc, cmd.Context(), domain.NominationID(id))
						if err != nil {
							return err
						}
						end := "aberta"
						if n.EndDate != nil {
							end = n.EndDate.Format(time.RFC3339)
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tfim=%s\n", n.ID, n.Name, end)
					}
					return nil
				})
			},
		}
	}

	cmd.AddCommand(
		action("close", "Define end_date como agora", (*voting.Service).CloseNomination),
		action("reopen", "Remove end_date", (*voting.Service).ReopenNomination),
	)
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Imprime o resumo de votos em JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(_ config.Config, db *gorm.DB) error {
				repos := voting.RepositoriesFor(db)
				p := presenter.New(repos, stats.NewAggregator(repos, nil, clock.NewSystemClock()))
				out, err := p.Stats(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
}

func newCountersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counters",
		Short: "Contadores ao vivo no Redis",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Reconstrói os contadores a partir do banco",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(cfg config.Config, db *gorm.DB) error {
				if !cfg.RedisEnabled {
					return errRedisDisabled
				}
				client, err := redisstorage.NewClient(cmd.Context(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
				if err != nil {
					return err
				}
				defer client.Close()

				counter := redisstorage.NewCounter(client, cfg.CounterPrefix)
				if err := voting.RebuildCounters(cmd.Context(), voting.RepositoriesFor(db), counter); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "contadores reconstruidos")
				return nil
			})
		},
	})
	return cmd
}
