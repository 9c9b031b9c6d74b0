package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/premiacao/internal/app/voting"
	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/clock"
	"github.com/marcelojr/premiacao/internal/platform/storage/database/dbtest"
)

func TestSummarize_QuandoSemNominados_DeveReportarSemDados(t *testing.T) {
	s := Summarize(nil)

	assert.False(t, s.HasData)
	assert.Zero(t, s.Average)
	assert.Zero(t, s.Max)
	assert.Zero(t, s.Nominees)
}

func TestSummarize_DeveCalcularMediaEMaximo(t *testing.T) {
	s := Summarize(map[domain.NomineeID]int64{"a": 3, "b": 1, "c": 0, "d": 4})

	assert.True(t, s.HasData)
	assert.Equal(t, int64(4), s.Nominees)
	assert.InDelta(t, 2.0, s.Average, 1e-9)
	assert.Equal(t, int64(4), s.Max)
}

func TestSummarize_QuandoTodosZerados_DeveTerDadosComZero(t *testing.T) {
	s := Summarize(map[domain.NomineeID]int64{"a": 0})

	assert.True(t, s.HasData)
	assert.Zero(t, s.Average)
}

type fixture struct {
	agg        *Aggregator
	clock      *clock.Fixed
	seed       *dbtest.Seeder
	nomination domain.Nomination
	closed     domain.Nomination
	p1, p2     domain.Nominee
}

func newFixture(t *testing.T, counter domain.Counter) fixture {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	clk := clock.NewFixed(seed.Now)

	role := seed.Role("membro")
	u1 := seed.User(role, "a@example.com")
	u2 := seed.User(role, "b@example.com")
	u3 := seed.User(role, "c@example.com")

	end := seed.Now.Add(-24 * time.Hour)
	f := fixture{
		agg:        NewAggregator(voting.RepositoriesFor(db), counter, clk),
		clock:      clk,
		seed:       seed,
		nomination: seed.Nomination("Aberta", seed.Now.Add(-10*24*time.Hour), nil),
		closed:     seed.Nomination("Encerrada", seed.Now.Add(-20*24*time.Hour), &end),
	}
	f.p1 = seed.Nominee(f.nomination, u1, "P1", seed.Now.Add(-40*24*time.Hour))
	f.p2 = seed.Nominee(f.nomination, u2, "P2", seed.Now)

	seed.Vote(u1, f.p1, domain.ChoiceYes)
	seed.Vote(u2, f.p1, domain.ChoiceYes)
	seed.Vote(u3, f.p1, domain.ChoiceAbstain)
	seed.Vote(u3, f.p2, domain.ChoiceNo)

	j := seed.Jury(u3)
	seed.Evaluation(j, f.p1, 10)
	return f
}

func TestAggregator_Nominations_DeveIncluirContagemESituacao(t *testing.T) {
	f := newFixture(t, nil)

	list, err := f.agg.Nominations(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, f.nomination.ID, list[0].Nomination.ID)
	assert.Equal(t, int64(2), list[0].NomineeCount)
	assert.True(t, list[0].Active)
	assert.Len(t, list[0].Nomination.Nominees, 2)

	assert.Equal(t, f.closed.ID, list[1].Nomination.ID)
	assert.Zero(t, list[1].NomineeCount)
	assert.False(t, list[1].Active)
}

func TestAggregator_Nominee_DeveSomarParticoesEAvaliacoes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	s, err := f.agg.Nominee(ctx, f.p1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Tally.Yes)
	assert.Equal(t, int64(1), s.Tally.Abstain)
	assert.Equal(t, s.Tally.Yes+s.Tally.No+s.Tally.Abstain, s.Tally.Total())
	assert.False(t, s.IsNew, "criado ha 40 dias")
	assert.Equal(t, int64(1), s.Scores.Evaluations)
	assert.Equal(t, 10, s.Scores.Max)

	novo, err := f.agg.Nominee(ctx, f.p2.ID)
	require.NoError(t, err)
	assert.True(t, novo.IsNew)

	_, err = f.agg.Nominee(ctx, domain.NomineeID(f.seed.ID()))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAggregator_GlobalVoteSummary(t *testing.T) {
	f := newFixture(t, nil)

	s, err := f.agg.GlobalVoteSummary(context.Background())

	require.NoError(t, err)
	assert.True(t, s.HasData)
	assert.InDelta(t, 2.0, s.Average, 1e-9)
	assert.Equal(t, int64(3), s.Max)
}

func TestAggregator_GlobalVoteSummary_QuandoBancoVazio_DeveReportarSemDados(t *testing.T) {
	db := dbtest.Open(t)
	agg := NewAggregator(voting.RepositoriesFor(db), nil, clock.NewSystemClock())

	s, err := agg.GlobalVoteSummary(context.Background())

	require.NoError(t, err)
	assert.False(t, s.HasData)
}

func TestAggregator_Tallies_DeveOrdenarPorTotal(t *testing.T) {
	f := newFixture(t, nil)

	tallies, err := f.agg.Tallies(context.Background())

	require.NoError(t, err)
	require.Len(t, tallies, 2)
	assert.Equal(t, f.p1.ID, tallies[0].NomineeID)
	assert.Equal(t, int64(3), tallies[0].Total())
	assert.Equal(t, int64(1), tallies[1].No)
}

type mapCounter map[string]int64

func (m mapCounter) Incr(_ context.Context, k string, d int64) (int64, error) {
	m[k] += d
	return m[k], nil
}
func (m mapCounter) Get(_ context.Context, k string) (int64, error) { return m[k], nil }
func (m mapCounter) GetAll(_ context.Context, keys []string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, k := range keys {
		out[k] = m[k]
	}
	return out, nil
}
func (m mapCounter) Set(_ context.Context, k string, v int64) error {
	m[k] = v
	return nil
}
func (m mapCounter) ApplyOnce(_ context.Context, _ string, keys []string) (bool, error) {
	for _, k := range keys {
		m[k]++
	}
	return true, nil
}
func (m mapCounter) ResetApplied(context.Context, []string) error { return nil }

func TestAggregator_LiveTally(t *testing.T) {
	t.Run("com contador le do redis", func(t *testing.T) {
		counter := mapCounter{}
		f := newFixture(t, counter)
		counter[voting.CounterKeyNomineeChoice(f.p1.ID, domain.ChoiceYes)] = 7
		counter[voting.CounterKeyNomineeChoice(f.p1.ID, domain.ChoiceNo)] = 2

		tally, err := f.agg.LiveTally(context.Background(), f.p1.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(7), tally.Yes)
		assert.Equal(t, int64(2), tally.No)
		assert.Zero(t, tally.Abstain)
	})

	t.Run("sem contador cai para o banco", func(t *testing.T) {
		f := newFixture(t, nil)

		tally, err := f.agg.LiveTally(context.Background(), f.p1.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(3), tally.Total())
	})

	t.Run("nominado inexistente", func(t *testing.T) {
		f := newFixture(t, mapCounter{})

		_, err := f.agg.LiveTally(context.Background(), domain.NomineeID(f.seed.ID()))

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
