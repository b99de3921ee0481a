package models

import (
	"time"

	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

// HighSchool is a ranked program; School is the natural key.
type HighSchool struct {
	ID        uint                `gorm:"primaryKey;autoIncrement"`
	School    string              `gorm:"type:text;not null;uniqueIndex"`
	City      *string             `gorm:"column:city"`
	State     *string             `gorm:"column:state"`
	Rank      *int                `gorm:"column:rank"`
	Ranks     types.SeasonRanks   `gorm:"column:ranks;type:jsonb;serializer:json"`
	Rating    *float64            `gorm:"column:rating"`
	Ratings   types.SeasonRatings `gorm:"column:ratings;type:jsonb;serializer:json"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (HighSchool) TableName() string { return "high_schools" }
