package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/premiacao/internal/domain"
	"github.com/marcelojr/premiacao/internal/platform/storage/database"
	"github.com/marcelojr/premiacao/internal/platform/storage/database/dbtest"
)

func TestUserRepository_Create_QuandoEmailDuplicado_DeveRetornarConflito(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewUserRepository(db)

	role := seed.Role("membro")
	seed.User(role, "ana@example.com")

	err := repo.Create(context.Background(), domain.User{
		ID:     domain.UserID(seed.ID()),
		Email:  "ana@example.com",
		RoleID: role.ID,
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestUserRepository_Create_QuandoPapelNaoExiste_DeveRetornarIntegridade(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewUserRepository(db)

	err := repo.Create(context.Background(), domain.User{
		ID:     domain.UserID(seed.ID()),
		Email:  "orfao@example.com",
		RoleID: domain.RoleID(seed.ID()),
	})

	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
}

func TestUserRepository_FindByID_DeveCarregarPapel(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewUserRepository(db)

	role := seed.Role("admin")
	user := seed.User(role, "ana@example.com")

	got, err := repo.FindByID(context.Background(), user.ID)

	require.NoError(t, err)
	require.NotNil(t, got.Role)
	assert.Equal(t, "admin", got.Role.Name)
}

func TestUserRepository_List_QuandoBuscaComCuringa_DeveTratarLiteralmente(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	role := seed.Role("membro")
	seed.User(role, "ana_silva@example.com")
	seed.User(role, "anaxsilva@example.com")
	seed.User(role, `ana\silva@example.com`)

	users, err := repo.List(ctx, domain.UserFilter{Search: "ANA_"})

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ana_silva@example.com", users[0].Email)

	users, err = repo.List(ctx, domain.UserFilter{Search: `ana\`})

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, `ana\silva@example.com`, users[0].Email)
}

func TestUserRepository_Delete_DeveRemoverDependentesEmCascata(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	role := seed.Role("membro")
	alvo := seed.User(role, "alvo@example.com")
	outro := seed.User(role, "outro@example.com")
	nomination := seed.Nomination("Inovacao", seed.Now, nil)

	nomineeDoAlvo := seed.Nominee(nomination, alvo, "Projeto Alvo", seed.Now)
	nomineeDoOutro := seed.Nominee(nomination, outro, "Projeto Outro", seed.Now)
	seed.Vote(outro, nomineeDoAlvo, domain.ChoiceYes)
	seed.Vote(alvo, nomineeDoOutro, domain.ChoiceNo)
	seed.Vote(outro, nomineeDoOutro, domain.ChoiceYes)
	jury := seed.Jury(alvo)
	seed.Evaluation(jury, nomineeDoOutro, 7)
	seed.Subscription(alvo, nomination)

	require.NoError(t, repo.Delete(ctx, alvo.ID))

	var votos, nominados, juri, avaliacoes, inscricoes int64
	db.Model(&domain.Vote{}).Count(&votos)
	db.Model(&domain.Nominee{}).Count(&nominados)
	db.Model(&domain.Jury{}).Count(&juri)
	db.Model(&domain.JuryEvaluation{}).Count(&avaliacoes)
	db.Model(&domain.Subscription{}).Count(&inscricoes)

	assert.Equal(t, int64(1), votos, "só o voto do outro no nominado do outro sobrevive")
	assert.Equal(t, int64(1), nominados)
	assert.Zero(t, juri)
	assert.Zero(t, avaliacoes)
	assert.Zero(t, inscricoes)

	_, err := repo.FindByID(ctx, outro.ID)
	assert.NoError(t, err)
}

func TestUserRepository_Delete_QuandoNaoExiste_DeveRetornarNaoEncontrado(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewUserRepository(db)

	err := repo.Delete(context.Background(), domain.UserID(seed.ID()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNominationRepository_Delete_DeveRemoverNominadosVotosEInscricoes(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewNominationRepository(db)
	ctx := context.Background()

	role := seed.Role("membro")
	user := seed.User(role, "ana@example.com")
	alvo := seed.Nomination("Alvo", seed.Now, nil)
	mantida := seed.Nomination("Mantida", seed.Now, nil)
	n1 := seed.Nominee(alvo, user, "P1", seed.Now)
	n2 := seed.Nominee(mantida, user, "P2", seed.Now)
	seed.Vote(user, n1, domain.ChoiceYes)
	seed.Vote(user, n2, domain.ChoiceYes)
	seed.Evaluation(seed.Jury(user), n1, 3)
	seed.Subscription(user, alvo)

	require.NoError(t, repo.Delete(ctx, alvo.ID))

	_, err := repo.FindByID(ctx, alvo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var votos, nominados, avaliacoes, inscricoes int64
	db.Model(&domain.Vote{}).Count(&votos)
	db.Model(&domain.Nominee{}).Count(&nominados)
	db.Model(&domain.JuryEvaluation{}).Count(&avaliacoes)
	db.Model(&domain.Subscription{}).Count(&inscricoes)
	assert.Equal(t, int64(1), votos)
	assert.Equal(t, int64(1), nominados)
	assert.Zero(t, avaliacoes)
	assert.Zero(t, inscricoes)
}

func TestNominationRepository_SetEndDate_DeveEncerrarEReabrir(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewNominationRepository(db)
	ctx := context.Background()

	n := seed.Nomination("Aberta", seed.Now.Add(-48*time.Hour), nil)
	end := seed.Now

	require.NoError(t, repo.SetEndDate(ctx, n.ID, &end))
	got, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end))

	require.NoError(t, repo.SetEndDate(ctx, n.ID, nil))
	got, err = repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndDate)

	assert.ErrorIs(t, repo.SetEndDate(ctx, domain.NominationID(seed.ID()), nil), domain.ErrNotFound)
}

func TestNominationRepository_NomineeCounts_DeveIncluirNominacoesVazias(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewNominationRepository(db)

	role := seed.Role("membro")
	u1 := seed.User(role, "a@example.com")
	u2 := seed.User(role, "b@example.com")
	cheia := seed.Nomination("Cheia", seed.Now, nil)
	vazia := seed.Nomination("Vazia", seed.Now, nil)
	seed.Nominee(cheia, u1, "P1", seed.Now)
	seed.Nominee(cheia, u2, "P2", seed.Now)

	counts, err := repo.NomineeCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[cheia.ID])
	v, ok := counts[vazia.ID]
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestNominationRepository_List_ComNominados_DeveOrdenarMaisRecentesPrimeiro(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewNominationRepository(db)

	role := seed.Role("membro")
	u1 := seed.User(role, "a@example.com")
	u2 := seed.User(role, "b@example.com")
	antiga := seed.Nomination("Antiga", seed.Now.Add(-72*time.Hour), nil)
	recente := seed.Nomination("Recente", seed.Now, nil)
	seed.Nominee(recente, u1, "Primeiro", seed.Now.Add(-time.Hour))
	seed.Nominee(recente, u2, "Segundo", seed.Now)

	list, err := repo.List(context.Background(), domain.NominationFilter{WithNominees: true})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recente.ID, list[0].ID)
	assert.Equal(t, antiga.ID, list[1].ID)
	require.Len(t, list[0].Nominees, 2)
	assert.Equal(t, "Segundo", list[0].Nominees[0].ProjectName)
	assert.Empty(t, list[1].Nominees)
}
