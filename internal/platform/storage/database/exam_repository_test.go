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

func TestExamRepository_Create_DeveVincularUsuarios(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewExamRepository(db)
	ctx := context.Background()

	role := seed.Role("membro")
	u1 := seed.User(role, "a@example.com")
	u2 := seed.User(role, "b@example.com")
	exam := domain.Exam{
		ID:        domain.ExamID(seed.ID()),
		Name:      "Prova final",
		CreatedAt: seed.Now,
		ExamDate:  seed.Now.AddDate(0, 0, 7),
		IsPublic:  true,
		Users:     []domain.User{{ID: u2.ID}, {ID: u1.ID}, {ID: u1.ID}},
	}

	require.NoError(t, repo.Create(ctx, exam))

	got, err := repo.FindByID(ctx, exam.ID)
	require.NoError(t, err)
	require.Len(t, got.Users, 2)
	assert.Equal(t, "a@example.com", got.Users[0].Email)
}

func TestExamRepository_Create_QuandoUsuarioNaoExiste_NaoDeveGravar(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewExamRepository(db)
	ctx := context.Background()

	id := domain.ExamID(seed.ID())
	err := repo.Create(ctx, domain.Exam{
		ID:        id,
		Name:      "Prova",
		CreatedAt: seed.Now,
		ExamDate:  seed.Now,
		Users:     []domain.User{{ID: domain.UserID(seed.ID())}},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExamRepository_List_QuandoSomentePublicos_DeveFiltrar(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewExamRepository(db)
	ctx := context.Background()

	for i, public := range []bool{true, false, true} {
		require.NoError(t, repo.Create(ctx, domain.Exam{
			ID:        domain.ExamID(seed.ID()),
			Name:      "Prova",
			CreatedAt: seed.Now,
			ExamDate:  seed.Now.Add(time.Duration(i) * 24 * time.Hour),
			IsPublic:  public,
		}))
	}

	all, err := repo.List(ctx, domain.ExamFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	public, err := repo.List(ctx, domain.ExamFilter{PublicOnly: true})
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.True(t, public[0].ExamDate.After(public[1].ExamDate))
}

func TestExamRepository_Delete_DeveRemoverVinculos(t *testing.T) {
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := database.NewExamRepository(db)
	users := database.NewUserRepository(db)
	ctx := context.Background()

	user := seed.User(seed.Role("membro"), "a@example.com")
	exam := domain.Exam{
		ID:        domain.ExamID(seed.ID()),
		Name:      "Prova",
		CreatedAt: seed.Now,
		ExamDate:  seed.Now,
		Users:     []domain.User{{ID: user.ID}},
	}
	require.NoError(t, repo.Create(ctx, exam))

	require.NoError(t, repo.Delete(ctx, exam.ID))
	assert.ErrorIs(t, repo.Delete(ctx, exam.ID), domain.ErrNotFound)

	var vinculos int64
	db.Table("exam_users").Count(&vinculos)
	assert.Zero(t, vinculos)
	assert.NoError(t, users.Delete(ctx, user.ID))
}
