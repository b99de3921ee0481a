package rankings

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoopscout/hoopscout-backend/pkg/db"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

// CircuitTeamDTO is the transport shape for a grassroots circuit team.
type CircuitTeamDTO struct {
	ID        uint                `json:"id"`
	Team      string              `json:"team"`
	Circuit   *string             `json:"circuit"`
	Rank      *int                `json:"rank"`
	Ranks     types.SeasonRanks   `json:"ranks"`
	Rating    *float64            `json:"rating"`
	Ratings   types.SeasonRatings `json:"ratings"`
	Rosters   types.SeasonRosters `json:"rosters"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// UpsertCircuitTeamDTO is the write payload; Team is the natural key.
type UpsertCircuitTeamDTO struct {
	Team    string              `json:"team" validate:"required"`
	Circuit *string             `json:"circuit"`
	Rank    *int                `json:"rank"`
	Ranks   types.SeasonRanks   `json:"ranks"`
	Rating  *float64            `json:"rating"`
	Ratings types.SeasonRatings `json:"ratings"`
	Rosters types.SeasonRosters `json:"rosters"`
}

// PatchCircuitTeamDTO is the partial-update payload. Rosters merge by season
// label: patching one summer's roster leaves the other summers alone.
type PatchCircuitTeamDTO struct {
	Team    *string             `json:"team"`
	Circuit *string             `json:"circuit"`
	Rank    *int                `json:"rank"`
	Ranks   types.SeasonRanks   `json:"ranks"`
	Rating  *float64            `json:"rating"`
	Ratings types.SeasonRatings `json:"ratings"`
	Rosters types.SeasonRosters `json:"rosters"`
}

func (d UpsertCircuitTeamDTO) toModel() *models.CircuitTeam {
	return &models.CircuitTeam{
		Team:    d.Team,
		Circuit: d.Circuit,
		Rank:    d.Rank,
		Ranks:   d.Ranks,
		Rating:  d.Rating,
		Ratings: d.Ratings,
		Rosters: d.Rosters,
	}
}

func (d PatchCircuitTeamDTO) apply(ct *models.CircuitTeam) {
	if d.Team != nil {
		ct.Team = *d.Team
	}
	if d.Circuit != nil {
		ct.Circuit = d.Circuit
	}
	if d.Rank != nil {
		ct.Rank = d.Rank
	}
	ct.Ranks = ct.Ranks.Merge(d.Ranks)
	if d.Rating != nil {
		ct.Rating = d.Rating
	}
	ct.Ratings = ct.Ratings.Merge(d.Ratings)
	ct.Rosters = ct.Rosters.Merge(d.Rosters)
}

func circuitTeamToDTO(ct *models.CircuitTeam) CircuitTeamDTO {
	return CircuitTeamDTO{
		ID:        ct.ID,
		Team:      ct.Team,
		Circuit:   ct.Circuit,
		Rank:      ct.Rank,
		Ranks:     ct.Ranks,
		Rating:    ct.Rating,
		Ratings:   ct.Ratings,
		Rosters:   ct.Rosters,
		CreatedAt: ct.CreatedAt,
		UpdatedAt: ct.UpdatedAt,
	}
}

// CircuitTeamRepository persists circuit team rows.
type CircuitTeamRepository struct {
	db *gorm.DB
}

func NewCircuitTeamRepository(db *gorm.DB) *CircuitTeamRepository {
	return &CircuitTeamRepository{db: db}
}

func (r *CircuitTeamRepository) List(ctx context.Context, q ListQuery) ([]models.CircuitTeam, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.CircuitTeam{})
	if q.Name != "" {
		base = base.Where("LOWER(team) LIKE ?", nameLikePattern(q.Name))
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CircuitTeam
	err := base.
		Order("team asc").
		Limit(q.Page.Limit).
		Offset(q.Page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *CircuitTeamRepository) GetByID(ctx context.Context, id uint) (*models.CircuitTeam, error) {
	var row models.CircuitTeam
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CircuitTeamRepository) Upsert(ctx context.Context, row *models.CircuitTeam) (*models.CircuitTeam, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team"}},
			UpdateAll: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}

	var saved models.CircuitTeam
	if err := r.db.WithContext(ctx).First(&saved, "team = ?", row.Team).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *CircuitTeamRepository) Save(ctx context.Context, row *models.CircuitTeam) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// CircuitTeamStore is the persistence surface the service needs.
type CircuitTeamStore interface {
	List(ctx context.Context, q ListQuery) ([]models.CircuitTeam, int64, error)
	GetByID(ctx context.Context, id uint) (*models.CircuitTeam, error)
	Upsert(ctx context.Context, row *models.CircuitTeam) (*models.CircuitTeam, error)
	Save(ctx context.Context, row *models.CircuitTeam) error
}

// CircuitTeamService implements the circuit team operations.
type CircuitTeamService struct {
	store CircuitTeamStore
}

func NewCircuitTeamService(store CircuitTeamStore) *CircuitTeamService {
	return &CircuitTeamService{store: store}
}

func (s *CircuitTeamService) List(ctx context.Context, q ListQuery) (*types.Page[CircuitTeamDTO], error) {
	q = q.Normalize()

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list circuit teams")
	}

	items := make([]CircuitTeamDTO, 0, len(rows))
	for i := range rows {
		items = append(items, circuitTeamToDTO(&rows[i]))
	}
	return &types.Page[CircuitTeamDTO]{Items: items, Total: total, Limit: q.Page.Limit, Offset: q.Page.Offset}, nil
}

func (s *CircuitTeamService) GetByID(ctx context.Context, id uint) (*CircuitTeamDTO, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "circuit team not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch circuit team")
	}
	dto := circuitTeamToDTO(row)
	return &dto, nil
}

func (s *CircuitTeamService) Upsert(ctx context.Context, dto UpsertCircuitTeamDTO) (*CircuitTeamDTO, error) {
	dto.Team = strings.TrimSpace(dto.Team)
	if dto.Team == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team is required")
	}

	saved, err := s.store.Upsert(ctx, dto.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "upsert circuit team")
	}
	out := circuitTeamToDTO(saved)
	return &out, nil
}

func (s *CircuitTeamService) Patch(ctx context.Context, id uint, dto PatchCircuitTeamDTO) (*CircuitTeamDTO, error) {
	if dto.Team != nil && strings.TrimSpace(*dto.Team) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team cannot be blank")
	}

	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "circuit team not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch circuit team")
	}

	dto.apply(row)
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another circuit team already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "save circuit team")
	}
	out := circuitTeamToDTO(row)
	return &out, nil
}

func (s *CircuitTeamService) Replace(ctx context.Context, id uint, dto UpsertCircuitTeamDTO) (*CircuitTeamDTO, error) {
	dto.Team = strings.TrimSpace(dto.Team)
	if dto.Team == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team is required")
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "circuit team not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch circuit team")
	}

	row := dto.toModel()
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another circuit team already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "replace circuit team")
	}
	out := circuitTeamToDTO(row)
	return &out, nil
}
