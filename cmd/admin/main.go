// CLI administrativo: migrations, abertura/encerramento de nominações, estatísticas e contadores.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcelojr/premiacao/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("comando falhou", "err", err)
		stop()
		os.Exit(1)
	}
}
