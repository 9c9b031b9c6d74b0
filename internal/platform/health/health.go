// Pacote health expõe liveness e readiness das dependências externas.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Check é uma dependência verificável por nome.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Checker struct {
	checks  []Check
	timeout time.Duration
}

// NewChecker registra banco e Redis; qualquer um dos dois pode ser nil.
func NewChecker(db *sql.DB, rdb *redis.Client, extra ...Check) *Checker {
	c := &Checker{timeout: 2 * time.Second}
	if db != nil {
		c.checks = append(c.checks, Check{Name: "database", Ping: db.PingContext})
	}
	if rdb != nil {
		c.checks = append(c.checks, Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	c.checks = append(c.checks, extra...)
	return c
}

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Run executa as checagens em ordem e devolve o nome da primeira que falhou.
func (c *Checker) Run(ctx context.Context) (map[string]string, string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make(map[string]string, len(c.checks))
	failed := ""
	for _, chk := range c.checks {
		if err := chk.Ping(ctx); err != nil {
			results[chk.Name] = "unavailable"
			if failed == "" {
				failed = chk.Name
			}
			continue
		}
		results[chk.Name] = "ok"
	}
	return results, failed
}

func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, failed := c.Run(r.Context())

		status := http.StatusOK
		body := report{Status: "ok", Checks: results}
		if failed != "" {
			status = http.StatusServiceUnavailable
			body.Status = failed + " unavailable"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// LiveHandler responde sem tocar em dependências.
func LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report{Status: "ok"})
	}
}
