package rankings

import (
	"time"

	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

// PlayerDTO is the transport shape for a player row. SeasonRank is only set
// on season-filtered lists: it prefers the season's entry in the ranks map
// and falls back to the current scalar rank.
type PlayerDTO struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Position     *string             `json:"position"`
	GradeYear    *int                `json:"grade_year"`
	Height       *string             `json:"height"`
	Hometown     *string             `json:"hometown"`
	HighSchool   *string             `json:"high_school"`
	HighSchoolID *uint               `json:"high_school_id"`
	CircuitTeam  *string             `json:"circuit_team"`
	CommittedTo  *string             `json:"committed_to"`
	Offers       []string            `json:"offers"`
	Rank         *int                `json:"rank"`
	Ranks        types.SeasonRanks   `json:"ranks"`
	Rating       *float64            `json:"rating"`
	Ratings      types.SeasonRatings `json:"ratings"`
	Grades       types.SeasonGrades  `json:"grades"`
	PhotoURL     *string             `json:"photo_url"`
	SeasonRank   *int                `json:"season_rank,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// UpsertPlayerDTO is the write payload for POST (upsert-by-name) and PUT
// (replace-at-id). Name is the natural key and must be non-empty.
type UpsertPlayerDTO struct {
	Name         string              `json:"name" validate:"required"`
	Position     *string             `json:"position"`
	GradeYear    *int                `json:"grade_year"`
	Height       *string             `json:"height"`
	Hometown     *string             `json:"hometown"`
	HighSchool   *string             `json:"high_school"`
	HighSchoolID *uint               `json:"high_school_id"`
	CircuitTeam  *string             `json:"circuit_team"`
	CommittedTo  *string             `json:"committed_to"`
	Offers       []string            `json:"offers"`
	Rank         *int                `json:"rank"`
	Ranks        types.SeasonRanks   `json:"ranks"`
	Rating       *float64            `json:"rating"`
	Ratings      types.SeasonRatings `json:"ratings"`
	Grades       types.SeasonGrades  `json:"grades"`
	PhotoURL     *string             `json:"photo_url"`
}

// PatchPlayerDTO is the partial-update payload. Absent fields are left
// untouched; season maps merge per key instead of replacing the whole map.
type PatchPlayerDTO struct {
	Name         *string             `json:"name"`
	Position     *string             `json:"position"`
	GradeYear    *int                `json:"grade_year"`
	Height       *string             `json:"height"`
	Hometown     *string             `json:"hometown"`
	HighSchool   *string             `json:"high_school"`
	HighSchoolID *uint               `json:"high_school_id"`
	CircuitTeam  *string             `json:"circuit_team"`
	CommittedTo  *string             `json:"committed_to"`
	Offers       []string            `json:"offers"`
	Rank         *int                `json:"rank"`
	Ranks        types.SeasonRanks   `json:"ranks"`
	Rating       *float64            `json:"rating"`
	Ratings      types.SeasonRatings `json:"ratings"`
	Grades       types.SeasonGrades  `json:"grades"`
	PhotoURL     *string             `json:"photo_url"`
}

func (d UpsertPlayerDTO) toModel() *models.Player {
	return &models.Player{
		Name:         d.Name,
		Position:     d.Position,
		GradeYear:    d.GradeYear,
		Height:       d.Height,
		Hometown:     d.Hometown,
		HighSchool:   d.HighSchool,
		HighSchoolID: d.HighSchoolID,
		CircuitTeam:  d.CircuitTeam,
		CommittedTo:  d.CommittedTo,
		Offers:       d.Offers,
		Rank:         d.Rank,
		Ranks:        d.Ranks,
		Rating:       d.Rating,
		Ratings:      d.Ratings,
		Grades:       d.Grades,
		PhotoURL:     d.PhotoURL,
	}
}

func (d PatchPlayerDTO) apply(p *models.Player) {
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Position != nil {
		p.Position = d.Position
	}
	if d.GradeYear != nil {
		p.GradeYear = d.GradeYear
	}
	if d.Height != nil {
		p.Height = d.Height
	}
	if d.Hometown != nil {
		p.Hometown = d.Hometown
	}
	if d.HighSchool != nil {
		p.HighSchool = d.HighSchool
	}
	if d.HighSchoolID != nil {
		p.HighSchoolID = d.HighSchoolID
	}
	if d.CircuitTeam != nil {
		p.CircuitTeam = d.CircuitTeam
	}
	if d.CommittedTo != nil {
		p.CommittedTo = d.CommittedTo
	}
	if d.Offers != nil {
		p.Offers = d.Offers
	}
	if d.Rank != nil {
		p.Rank = d.Rank
	}
	p.Ranks = p.Ranks.Merge(d.Ranks)
	if d.Rating != nil {
		p.Rating = d.Rating
	}
	p.Ratings = p.Ratings.Merge(d.Ratings)
	p.Grades = p.Grades.Merge(d.Grades)
	if d.PhotoURL != nil {
		p.PhotoURL = d.PhotoURL
	}
}

func playerToDTO(p *models.Player, season string) PlayerDTO {
	dto := PlayerDTO{
		ID:           p.ID,
		Name:         p.Name,
		Position:     p.Position,
		GradeYear:    p.GradeYear,
		Height:       p.Height,
		Hometown:     p.Hometown,
		HighSchool:   p.HighSchool,
		HighSchoolID: p.HighSchoolID,
		CircuitTeam:  p.CircuitTeam,
		CommittedTo:  p.CommittedTo,
		Offers:       p.Offers,
		Rank:         p.Rank,
		Ranks:        p.Ranks,
		Rating:       p.Rating,
		Ratings:      p.Ratings,
		Grades:       p.Grades,
		PhotoURL:     p.PhotoURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if season != "" {
		if rank, ok := p.Ranks[season]; ok {
			dto.SeasonRank = &rank
		} else {
			dto.SeasonRank = p.Rank
		}
	}
	return dto
}
