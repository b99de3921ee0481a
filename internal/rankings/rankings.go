// Package rankings implements the ranked-entity store: players, high
// schools, circuit teams, and colleges, each carrying current scalar values
// alongside season-keyed history maps.
package rankings

import (
	"strings"

	"gorm.io/gorm"

	"github.com/hoopscout/hoopscout-backend/pkg/pagination"
)

// ListQuery carries the window and filters for entity list endpoints. Season
// only applies to players; the other entities ignore it.
type ListQuery struct {
	Page   pagination.Params
	Name   string
	Season string
}

// Normalize clamps the window and trims the filters.
func (q ListQuery) Normalize() ListQuery {
	return ListQuery{
		Page:   q.Page.Normalize(),
		Name:   strings.TrimSpace(q.Name),
		Season: strings.TrimSpace(q.Season),
	}
}

func nameLikePattern(name string) string {
	return "%" + strings.ToLower(name) + "%"
}

// seasonKeyCondition returns a SQL condition matching rows whose JSON map
// column holds a non-null entry under the season key, with the key bound as a
// parameter. Postgres binds it directly with ->>. SQLite reads a
// numeric-looking ->> argument like '2024' as an array index rather than an
// object key, so it gets an explicit json_extract object path instead.
func seasonKeyCondition(tx *gorm.DB, column, season string) (string, any) {
	if tx.Dialector.Name() == "sqlite" {
		return "json_extract(" + column + ", ?) IS NOT NULL", `$."` + season + `"`
	}
	return "(" + column + " ->> ?) IS NOT NULL", season
}
