package voting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/clock"
	"github.com/marcelojr/premiacao/internal/platform/ids"
	"github.com/marcelojr/premiacao/internal/platform/storage/database/dbtest"
)

type serviceDependencies struct {
	repos      Repositories
	seed       *dbtest.Seeder
	counter    *inMemoryCounter
	queue      *recordingQueue
	clock      *clock.Fixed
	idGen      *ids.Generator
	baseTime   time.Time
	antifraude *switchAntifraude
}

func newServiceDeps(t *testing.T) serviceDependencies {
	db := dbtest.Open(t)
	base := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)

	return serviceDependencies{
		repos:      RepositoriesFor(db),
		seed:       dbtest.NewSeeder(t, db),
		counter:    newInMemoryCounter(),
		queue:      newRecordingQueue(),
		clock:      clock.NewFixed(base),
		idGen:      ids.NewGenerator(),
		baseTime:   base,
		antifraude: &switchAntifraude{},
	}
}

func (d serviceDependencies) service(opts ...Option) *Service {
	base := []Option{
		WithQueue(d.queue),
		WithCounter(d.counter),
		WithAntifraude(d.antifraude),
		WithIDs(d.idGen),
	}
	return NewService(d.repos, d.clock, append(base, opts...)...)
}

type inMemoryCounter struct {
	mu        sync.Mutex
	valores   map[string]int64
	aplicados map[string]bool
}

func newInMemoryCounter() *inMemoryCounter {
	return &inMemoryCounter{valores: make(map[string]int64), aplicados: make(map[string]bool)}
}

func (c *inMemoryCounter) ApplyOnce(_ context.Context, id string, keys []string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aplicados[id] {
		return false, nil
	}
	c.aplicados[id] = true
	for _, k := range keys {
		c.valores[k]++
	}
	return true, nil
}

func (c *inMemoryCounter) ResetApplied(_ context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aplicados = make(map[string]bool, len(ids))
	for _, id := range ids {
		c.aplicados[id] = true
	}
	return nil
}

func (c *inMemoryCounter) Incr(_ context.Context, key string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valores[key] += delta
	return c.valores[key], nil
}

func (c *inMemoryCounter) Get(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valores[key], nil
}

func (c *inMemoryCounter) GetAll(_ context.Context, keys []string) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = c.valores[k]
	}
	return out, nil
}

func (c *inMemoryCounter) Set(_ context.Context, key string, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valores[key] = value
	return nil
}

type recordingQueue struct {
	mu      sync.Mutex
	eventos []domain.VoteEvent
	falha   error
}

func newRecordingQueue() *recordingQueue {
	return &recordingQueue{}
}

func (r *recordingQueue) PublishVote(_ context.Context, ev domain.VoteEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falha != nil {
		return r.falha
	}
	r.eventos = append(r.eventos, ev)
	return nil
}

func (r *recordingQueue) ConsumeVotes(ctx context.Context, handler func(context.Context, domain.VoteEvent) error) error {
	for _, ev := range r.Drain() {
		if err := handler(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (r *recordingQueue) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.eventos)
}

func (r *recordingQueue) Drain() []domain.VoteEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.eventos
	r.eventos = nil
	return out
}

var errBloqueado = errors.New("bloqueado pelo antifraude")

type switchAntifraude struct {
	bloquear bool
}

func (a *switchAntifraude) Check(context.Context, domain.Vote) error {
	if a.bloquear {
		return errBloqueado
	}
	return nil
}
