package models

import (
	"time"

	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

// CircuitTeam is a ranked grassroots/AAU team; Team is the natural key.
// Rosters maps a season label to that summer's player names.
type CircuitTeam struct {
	ID        uint                `gorm:"primaryKey;autoIncrement"`
	Team      string              `gorm:"type:text;not null;uniqueIndex"`
	Circuit   *string             `gorm:"column:circuit"`
	Rank      *int                `gorm:"column:rank"`
	Ranks     types.SeasonRanks   `gorm:"column:ranks;type:jsonb;serializer:json"`
	Rating    *float64            `gorm:"column:rating"`
	Ratings   types.SeasonRatings `gorm:"column:ratings;type:jsonb;serializer:json"`
	Rosters   types.SeasonRosters `gorm:"column:rosters;type:jsonb;serializer:json"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (CircuitTeam) TableName() string { return "circuit_teams" }
