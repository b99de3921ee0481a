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

// HighSchoolDTO is the transport shape for a high school program.
type HighSchoolDTO struct {
	ID        uint                `json:"id"`
	School    string              `json:"school"`
	City      *string             `json:"city"`
	State     *string             `json:"state"`
	Rank      *int                `json:"rank"`
	Ranks     types.SeasonRanks   `json:"ranks"`
	Rating    *float64            `json:"rating"`
	Ratings   types.SeasonRatings `json:"ratings"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// UpsertHighSchoolDTO is the write payload; School is the natural key.
type UpsertHighSchoolDTO struct {
	School  string              `json:"school" validate:"required"`
	City    *string             `json:"city"`
	State   *string             `json:"state"`
	Rank    *int                `json:"rank"`
	Ranks   types.SeasonRanks   `json:"ranks"`
	Rating  *float64            `json:"rating"`
	Ratings types.SeasonRatings `json:"ratings"`
}

// PatchHighSchoolDTO is the partial-update payload.
type PatchHighSchoolDTO struct {
	School  *string             `json:"school"`
	City    *string             `json:"city"`
	State   *string             `json:"state"`
	Rank    *int                `json:"rank"`
	Ranks   types.SeasonRanks   `json:"ranks"`
	Rating  *float64            `json:"rating"`
	Ratings types.SeasonRatings `json:"ratings"`
}

func (d UpsertHighSchoolDTO) toModel() *models.HighSchool {
	return &models.HighSchool{
		School:  d.School,
		City:    d.City,
		State:   d.State,
		Rank:    d.Rank,
		Ranks:   d.Ranks,
		Rating:  d.Rating,
		Ratings: d.Ratings,
	}
}

func (d PatchHighSchoolDTO) apply(hs *models.HighSchool) {
	if d.School != nil {
		hs.School = *d.School
	}
	if d.City != nil {
		hs.City = d.City
	}
	if d.State != nil {
		hs.State = d.State
	}
	if d.Rank != nil {
		hs.Rank = d.Rank
	}
	hs.Ranks = hs.Ranks.Merge(d.Ranks)
	if d.Rating != nil {
		hs.Rating = d.Rating
	}
	hs.Ratings = hs.Ratings.Merge(d.Ratings)
}

func highSchoolToDTO(hs *models.HighSchool) HighSchoolDTO {
	return HighSchoolDTO{
		ID:        hs.ID,
		School:    hs.School,
		City:      hs.City,
		State:     hs.State,
		Rank:      hs.Rank,
		Ranks:     hs.Ranks,
		Rating:    hs.Rating,
		Ratings:   hs.Ratings,
		CreatedAt: hs.CreatedAt,
		UpdatedAt: hs.UpdatedAt,
	}
}

// HighSchoolRepository persists high school rows.
type HighSchoolRepository struct {
	db *gorm.DB
}

func NewHighSchoolRepository(db *gorm.DB) *HighSchoolRepository {
	return &HighSchoolRepository{db: db}
}

func (r *HighSchoolRepository) List(ctx context.Context, q ListQuery) ([]models.HighSchool, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.HighSchool{})
	if q.Name != "" {
		base = base.Where("LOWER(school) LIKE ?", nameLikePattern(q.Name))
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.HighSchool
	err := base.
		Order("school asc").
		Limit(q.Page.Limit).
		Offset(q.Page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *HighSchoolRepository) GetByID(ctx context.Context, id uint) (*models.HighSchool, error) {
	var row models.HighSchool
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *HighSchoolRepository) Upsert(ctx context.Context, row *models.HighSchool) (*models.HighSchool, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "school"}},
			UpdateAll: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}

	var saved models.HighSchool
	if err := r.db.WithContext(ctx).First(&saved, "school = ?", row.School).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *HighSchoolRepository) Save(ctx context.Context, row *models.HighSchool) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// HighSchoolStore is the persistence surface the service needs.
type HighSchoolStore interface {
	List(ctx context.Context, q ListQuery) ([]models.HighSchool, int64, error)
	GetByID(ctx context.Context, id uint) (*models.HighSchool, error)
	Upsert(ctx context.Context, row *models.HighSchool) (*models.HighSchool, error)
	Save(ctx context.Context, row *models.HighSchool) error
}

// HighSchoolService implements the high school operations.
type HighSchoolService struct {
	store HighSchoolStore
}

func NewHighSchoolService(store HighSchoolStore) *HighSchoolService {
	return &HighSchoolService{store: store}
}

func (s *HighSchoolService) List(ctx context.Context, q ListQuery) (*types.Page[HighSchoolDTO], error) {
	q = q.Normalize()

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list high schools")
	}

	items := make([]HighSchoolDTO, 0, len(rows))
	for i := range rows {
		items = append(items, highSchoolToDTO(&rows[i]))
	}
	return &types.Page[HighSchoolDTO]{Items: items, Total: total, Limit: q.Page.Limit, Offset: q.Page.Offset}, nil
}

func (s *HighSchoolService) GetByID(ctx context.Context, id uint) (*HighSchoolDTO, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "high school not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch high school")
	}
	dto := highSchoolToDTO(row)
	return &dto, nil
}

func (s *HighSchoolService) Upsert(ctx context.Context, dto UpsertHighSchoolDTO) (*HighSchoolDTO, error) {
	dto.School = strings.TrimSpace(dto.School)
	if dto.School == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "school is required")
	}

	saved, err := s.store.Upsert(ctx, dto.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "upsert high school")
	}
	out := highSchoolToDTO(saved)
	return &out, nil
}

func (s *HighSchoolService) Patch(ctx context.Context, id uint, dto PatchHighSchoolDTO) (*HighSchoolDTO, error) {
	if dto.School != nil && strings.TrimSpace(*dto.School) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "school cannot be blank")
	}

	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "high school not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch high school")
	}

	dto.apply(row)
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another high school already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "save high school")
	}
	out := highSchoolToDTO(row)
	return &out, nil
}

func (s *HighSchoolService) Replace(ctx context.Context, id uint, dto UpsertHighSchoolDTO) (*HighSchoolDTO, error) {
	dto.School = strings.TrimSpace(dto.School)
	if dto.School == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "school is required")
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "high school not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch high school")
	}

	row := dto.toModel()
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another high school already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "replace high school")
	}
	out := highSchoolToDTO(row)
	return &out, nil
}
