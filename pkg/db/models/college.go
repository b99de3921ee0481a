package models

import (
	"time"

	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

// College is a recruiting destination; Name is the natural key. Commits maps
// a season label to the player names committed in that class.
type College struct {
	ID         uint                `gorm:"primaryKey;autoIncrement"`
	Name       string              `gorm:"type:text;not null;uniqueIndex"`
	Conference *string             `gorm:"column:conference"`
	Division   *string             `gorm:"column:division"`
	Rank       *int                `gorm:"column:rank"`
	Ranks      types.SeasonRanks   `gorm:"column:ranks;type:jsonb;serializer:json"`
	Commits    types.SeasonRosters `gorm:"column:commits;type:jsonb;serializer:json"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (College) TableName() string { return "colleges" }
