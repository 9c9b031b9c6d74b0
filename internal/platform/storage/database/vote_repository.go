package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/premiacao/internal/domain"
)

// VoteRepository guarda votos e expõe as contagens usadas pelas estatísticas.
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Create(ctx context.Context, v domain.Vote) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&v).Error; err != nil {
		return fmt.Errorf("gorm vote: inserir: %w", translate(err))
	}
	return nil
}

func (r *VoteRepository) Exists(ctx context.Context, userID domain.UserID, nomineeID domain.NomineeID) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Vote{}).
		Where("user_id = ? AND nominee_id = ?", userID, nomineeID).
		Count(&total).Error; err != nil {
		return false, fmt.Errorf("gorm vote: verificar par: %w", err)
	}
	return total > 0, nil
}

func (r *VoteRepository) ExistsByID(ctx context.Context, id domain.VoteID) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Vote{}).
		Where("id = ?", id).
		Count(&total).Error; err != nil {
		return false, fmt.Errorf("gorm vote: verificar id: %w", err)
	}
	return total > 0, nil
}

// IDs lista os ids de todos os votos; alimenta a reconstrução dos contadores.
func (r *VoteRepository) IDs(ctx context.Context) ([]domain.VoteID, error) {
	var out []domain.VoteID
	if err := r.db.WithContext(ctx).Model(&domain.Vote{}).Order("id").Pluck("id", &out).Error; err != nil {
		return nil, fmt.Errorf("gorm vote: listar ids: %w", err)
	}
	return out, nil
}

func (r *VoteRepository) List(ctx context.Context, f domain.VoteFilter) ([]domain.Vote, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Nominee")
	if f.NomineeID != "" {
		q = q.Where("votes.nominee_id = ?", f.NomineeID)
	}
	if f.NominationID != "" {
		q = q.Where("votes.nominee_id IN (?)",
			r.db.Model(&domain.Nominee{}).Select("id").Where("nomination_id = ?", f.NominationID))
	}
	if f.UserID != "" {
		q = q.Where("votes.user_id = ?", f.UserID)
	}
	if f.Choice != "" {
		q = q.Where("votes.choice = ?", f.Choice)
	}

	var list []domain.Vote
	if err := applyLimit(q, f.Limit).Order("votes.voted_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("gorm vote: listar: %w", err)
	}
	return list, nil
}

func (r *VoteRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Vote{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm vote: contar: %w", err)
	}
	return total, nil
}

type choiceRow struct {
	NomineeID string
	Choice    string
	Total     int64
}

func (r *VoteRepository) TallyByNominee(ctx context.Context, id domain.NomineeID) (domain.Tally, error) {
	var res []choiceRow
	if err := r.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Select("nominee_id, choice, COUNT(*) AS total").
		Where("nominee_id = ?", id).
		Group("nominee_id, choice").
		Scan(&res).Error; err != nil {
		return domain.Tally{}, fmt.Errorf("gorm vote: apurar nominado: %w", err)
	}

	tally := domain.Tally{NomineeID: id}
	for _, row := range res {
		tally.Add(domain.Choice(row.Choice), row.Total)
	}
	return tally, nil
}

func (r *VoteRepository) TallyAll(ctx context.Context) (map[domain.NomineeID]domain.Tally, error) {
	var res []choiceRow
	if err := r.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Select("nominee_id, choice, COUNT(*) AS total").
		Group("nominee_id, choice").
		Scan(&res).Error; err != nil {
		return nil, fmt.Errorf("gorm vote: apurar todos: %w", err)
	}

	tallies := make(map[domain.NomineeID]domain.Tally)
	for _, row := range res {
		id := domain.NomineeID(row.NomineeID)
		t := tallies[id]
		t.NomineeID = id
		t.Add(domain.Choice(row.Choice), row.Total)
		tallies[id] = t
	}
	return tallies, nil
}

// CountsPerNominee inclui nominados sem votos (total zero) para não distorcer média e máximo.
func (r *VoteRepository) CountsPerNominee(ctx context.Context) (map[domain.NomineeID]int64, error) {
	type resultado struct {
		NomineeID string
		Total     int64
	}
	var res []resultado
	if err := r.db.WithContext(ctx).
		Model(&domain.Nominee{}).
		Select("nominees.id AS nominee_id, COUNT(votes.id) AS total").
		Joins("LEFT JOIN votes ON votes.nominee_id = nominees.id").
		Group("nominees.id").
		Scan(&res).Error; err != nil {
		return nil, fmt.Errorf("gorm vote: total por nominado: %w", err)
	}

	totais := make(map[domain.NomineeID]int64, len(res))
	for _, item := range res {
		totais[domain.NomineeID(item.NomineeID)] = item.Total
	}
	return totais, nil
}

var _ domain.VoteRepository = (*VoteRepository)(nil)
