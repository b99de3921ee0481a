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

// CollegeDTO is the transport shape for a recruiting destination. Commits
// maps a class year to the committed player names.
type CollegeDTO struct {
	ID         uint                `json:"id"`
	Name       string              `json:"name"`
	Conference *string             `json:"conference"`
	Division   *string             `json:"division"`
	Rank       *int                `json:"rank"`
	Ranks      types.SeasonRanks   `json:"ranks"`
	Commits    types.SeasonRosters `json:"commits"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// UpsertCollegeDTO is the write payload; Name is the natural key.
type UpsertCollegeDTO struct {
	Name       string              `json:"name" validate:"required"`
	Conference *string             `json:"conference"`
	Division   *string             `json:"division"`
	Rank       *int                `json:"rank"`
	Ranks      types.SeasonRanks   `json:"ranks"`
	Commits    types.SeasonRosters `json:"commits"`
}

// PatchCollegeDTO is the partial-update payload.
type PatchCollegeDTO struct {
	Name       *string             `json:"name"`
	Conference *string             `json:"conference"`
	Division   *string             `json:"division"`
	Rank       *int                `json:"rank"`
	Ranks      types.SeasonRanks   `json:"ranks"`
	Commits    types.SeasonRosters `json:"commits"`
}

func (d UpsertCollegeDTO) toModel() *models.College {
	return &models.College{
		Name:       d.Name,
		Conference: d.Conference,
		Division:   d.Division,
		Rank:       d.Rank,
		Ranks:      d.Ranks,
		Commits:    d.Commits,
	}
}

func (d PatchCollegeDTO) apply(c *models.College) {
	if d.Name != nil {
		c.Name = *d.Name
	}
	if d.Conference != nil {
		c.Conference = d.Conference
	}
	if d.Division != nil {
		c.Division = d.Division
	}
	if d.Rank != nil {
		c.Rank = d.Rank
	}
	c.Ranks = c.Ranks.Merge(d.Ranks)
	c.Commits = c.Commits.Merge(d.Commits)
}

func collegeToDTO(c *models.College) CollegeDTO {
	return CollegeDTO{
		ID:         c.ID,
		Name:       c.Name,
		Conference: c.Conference,
		Division:   c.Division,
		Rank:       c.Rank,
		Ranks:      c.Ranks,
		Commits:    c.Commits,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CollegeRepository persists college rows.
type CollegeRepository struct {
	db *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

func (r *CollegeRepository) List(ctx context.Context, q ListQuery) ([]models.College, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.College{})
	if q.Name != "" {
		base = base.Where("LOWER(name) LIKE ?", nameLikePattern(q.Name))
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.College
	err := base.
		Order("name asc").
		Limit(q.Page.Limit).
		Offset(q.Page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *CollegeRepository) GetByID(ctx context.Context, id uint) (*models.College, error) {
	var row models.College
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CollegeRepository) Upsert(ctx context.Context, row *models.College) (*models.College, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}

	var saved models.College
	if err := r.db.WithContext(ctx).First(&saved, "name = ?", row.Name).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *CollegeRepository) Save(ctx context.Context, row *models.College) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// CollegeStore is the persistence surface the service needs.
type CollegeStore interface {
	List(ctx context.Context, q ListQuery) ([]models.College, int64, error)
	GetByID(ctx context.Context, id uint) (*models.College, error)
	Upsert(ctx context.Context, row *models.College) (*models.College, error)
	Save(ctx context.Context, row *models.College) error
}

// CollegeService implements the college operations.
type CollegeService struct {
	store CollegeStore
}

func NewCollegeService(store CollegeStore) *CollegeService {
	return &CollegeService{store: store}
}

func (s *CollegeService) List(ctx context.Context, q ListQuery) (*types.Page[CollegeDTO], error) {
	q = q.Normalize()

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list colleges")
	}

	items := make([]CollegeDTO, 0, len(rows))
	for i := range rows {
		items = append(items, collegeToDTO(&rows[i]))
	}
	return &types.Page[CollegeDTO]{Items: items, Total: total, Limit: q.Page.Limit, Offset: q.Page.Offset}, nil
}

func (s *CollegeService) GetByID(ctx context.Context, id uint) (*CollegeDTO, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "college not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch college")
	}
	dto := collegeToDTO(row)
	return &dto, nil
}

func (s *CollegeService) Upsert(ctx context.Context, dto UpsertCollegeDTO) (*CollegeDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	saved, err := s.store.Upsert(ctx, dto.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "upsert college")
	}
	out := collegeToDTO(saved)
	return &out, nil
}

func (s *CollegeService) Patch(ctx context.Context, id uint, dto PatchCollegeDTO) (*CollegeDTO, error) {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}

	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "college not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch college")
	}

	dto.apply(row)
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another college already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "save college")
	}
	out := collegeToDTO(row)
	return &out, nil
}

func (s *CollegeService) Replace(ctx context.Context, id uint, dto UpsertCollegeDTO) (*CollegeDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "college not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch college")
	}

	row := dto.toModel()
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another college already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "replace college")
	}
	out := collegeToDTO(row)
	return &out, nil
}
