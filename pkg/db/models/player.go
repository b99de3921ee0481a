package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

// Player is a ranked prospect. Name is the natural key used by upserts; the
// numeric ID is the synthetic key used by fetch/patch. Rank/Rating/Grade carry
// the "current" value while the season-keyed maps carry the republished
// history for the same attribute.
type Player struct {
	ID           uint                `gorm:"primaryKey;autoIncrement"`
	Name         string              `gorm:"type:text;not null;uniqueIndex"`
	Position     *string             `gorm:"column:position"`
	GradeYear    *int                `gorm:"column:grade_year"`
	Height       *string             `gorm:"column:height"`
	Hometown     *string             `gorm:"column:hometown"`
	HighSchool   *string             `gorm:"column:high_school"`
	HighSchoolID *uint               `gorm:"column:high_school_id"`
	CircuitTeam  *string             `gorm:"column:circuit_team"`
	CommittedTo  *string             `gorm:"column:committed_to"`
	Offers       pq.StringArray      `gorm:"column:offers;type:text[]"`
	Rank         *int                `gorm:"column:rank"`
	Ranks        types.SeasonRanks   `gorm:"column:ranks;type:jsonb;serializer:json"`
	Rating       *float64            `gorm:"column:rating"`
	Ratings      types.SeasonRatings `gorm:"column:ratings;type:jsonb;serializer:json"`
	Grades       types.SeasonGrades  `gorm:"column:grades;type:jsonb;serializer:json"`
	PhotoURL     *string             `gorm:"column:photo_url"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Player) TableName() string { return "players" }
