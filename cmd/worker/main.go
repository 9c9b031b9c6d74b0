// Worker assíncrono que consome eventos de voto da fila e mantém os contadores ao vivo no Redis.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/app/worker"
	"github.com/marcelojr/premiacao/internal/domain"
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

	if !cfg.RedisEnabled {
		logger.Fatal("worker exige REDIS_ENABLED: fila e contadores vivem no redis")
	}

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
		// Evitamos divergência de schema rodando a mesma migração condicional da API.
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	counter := redisstorage.NewCounter(redisClient, cfg.CounterPrefix)
	queue := redisstorage.NewQueue(redisClient, cfg.QueueKey)
	checker := health.NewChecker(sqlDB, redisClient)

	if cfg.WorkerMetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("GET /metrics", promhttp.Handler())
			mux.HandleFunc("GET /healthz", health.LiveHandler())
			mux.HandleFunc("GET /readyz", checker.ReadyHandler())
			srv := &http.Server{Addr: cfg.WorkerMetricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			logger.Info("worker metrics ouvindo", "addr", cfg.WorkerMetricsAddress)
			if err := srv.ListenAndServe(); err != nil {
				logger.Error("erro no servidor de metrics do worker", "err", err)
			}
		}()
	}

	processor := worker.NewVoteProcessor(voting.RepositoriesFor(db), counter)

	// Contadores podem ter perdido eventos enquanto o worker estava fora.
	if err := processor.Rebuild(ctx); err != nil {
		logger.Error("falha ao reconstruir contadores na partida", "err", err)
	}

	logger.Info("worker iniciado, aguardando votos", "queue", cfg.QueueKey)
	err = processor.Run(ctx, queue, func(ev domain.VoteEvent, err error) {
		logger.Error("erro ao processar evento de voto", "vote", ev.VoteID, "err", err)
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("worker finalizado com erro", "err", err)
	}

	logger.Info("worker finalizado")
}
