package models

// All returns every persisted model, in dependency order, for schema
// auto-migration on the sqlite dev backend.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Player{},
		&HighSchool{},
		&CircuitTeam{},
		&College{},
		&Product{},
	}
}
