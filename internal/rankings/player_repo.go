package rankings

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
)

// PlayerRepository persists player rows.
type PlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// List returns one window of players plus the total match count. Rows come
// back ordered by id so paging is stable across requests.
func (r *PlayerRepository) List(ctx context.Context, q ListQuery) ([]models.Player, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Player{})
	base = applyPlayerFilters(base, q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Player
	err := base.
		Order("id asc").
		Limit(q.Page.Limit).
		Offset(q.Page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id uint) (*models.Player, error) {
	var row models.Player
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert inserts or fully replaces the row sharing the same name, then
// reloads it so the caller sees the persisted id and timestamps.
func (r *PlayerRepository) Upsert(ctx context.Context, row *models.Player) (*models.Player, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}

	var saved models.Player
	if err := r.db.WithContext(ctx).First(&saved, "name = ?", row.Name).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Save writes every column of an existing row.
func (r *PlayerRepository) Save(ctx context.Context, row *models.Player) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// applyPlayerFilters narrows the query. The season filter matches either the
// grade-year column or a non-null entry under that season in the ranks map.
func applyPlayerFilters(tx *gorm.DB, q ListQuery) *gorm.DB {
	if q.Name != "" {
		tx = tx.Where("LOWER(name) LIKE ?", nameLikePattern(q.Name))
	}
	if q.Season != "" {
		ranksCond, key := seasonKeyCondition(tx, "ranks", q.Season)
		if year, err := strconv.Atoi(q.Season); err == nil {
			tx = tx.Where("grade_year = ? OR "+ranksCond, year, key)
		} else {
			tx = tx.Where(ranksCond, key)
		}
	}
	return tx
}
