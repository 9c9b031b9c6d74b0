// Executável principal da API: carrega a configuração, inicializa dependências e sobe o servidor HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/premiacao/internal/app/httpapi"
	"github.com/marcelojr/premiacao/internal/app/presenter"
	"github.com/marcelojr/premiacao/internal/app/stats"
	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/antifraude"
	"github.com/marcelojr/premiacao/internal/platform/clock"
	"github.com/marcelojr/premiacao/internal/platform/config"
	"github.com/marcelojr/premiacao/internal/platform/health"
	"github.com/marcelojr/premiacao/internal/platform/logger"
	"github.com/marcelojr/premiacao/internal/platform/migrations"
	"github.com/marcelojr/premiacao/internal/platform/storage/database"
	redisstorage "github.com/marcelojr/premiacao/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	// Mantemos a conexão compartilhada em todo o ciclo para reaproveitar pool e checar readiness.
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Fatal("falha ao conectar no banco", "driver", cfg.DBDriver, "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	repos := voting.RepositoriesFor(db)
	clockSystem := clock.NewSystemClock()
	opts := []voting.Option{voting.WithRequireActive(cfg.RequireActiveNomination)}

	// Sem Redis a API segue funcionando: contadores ao vivo caem para o banco e não há rate limit.
	var (
		redisClient *redis.Client
		counter     domain.Counter
	)
	if cfg.RedisEnabled {
		redisClient, err = redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("falha ao conectar no redis", "err", err)
		}
		defer redisClient.Close()

		counter = redisstorage.NewCounter(redisClient, cfg.CounterPrefix)
		opts = append(opts,
			voting.WithCounter(counter),
			voting.WithQueue(redisstorage.NewQueue(redisClient, cfg.QueueKey)),
		)
		if cfg.RateLimitEnabled {
			window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
			opts = append(opts, voting.WithAntifraude(
				antifraude.NewRedisRateLimiter(redisClient, cfg.RateLimitMaxActions, window, cfg.RateLimitKeyPrefix),
			))
		}
	} else {
		logger.Warn("redis desabilitado; contadores ao vivo e rate limit desligados")
		opts = append(opts, voting.WithAntifraude(antifraude.NewNoop()))
	}

	service := voting.NewService(repos, clockSystem, opts...)
	aggregator := stats.NewAggregator(repos, counter, clockSystem)
	queries := presenter.New(repos, aggregator)
	checker := health.NewChecker(sqlDB, redisClient)

	mux := http.NewServeMux()
	httpapi.New(service, queries, aggregator, logger.L()).Register(mux)
	mux.HandleFunc("GET /healthz", health.LiveHandler())
	mux.HandleFunc("GET /readyz", checker.ReadyHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("erro ao encerrar servidor", "err", err)
		}
	}()

	logger.Info("api ouvindo", "addr", cfg.HTTPAddress, "driver", cfg.DBDriver, "redis", cfg.RedisEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("erro no servidor", "err", err)
	}
	logger.Info("api finalizada")
}
