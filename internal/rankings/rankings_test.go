package rankings

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
	"github.com/hoopscout/hoopscout-backend/pkg/pagination"
	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Player{},
		&models.HighSchool{},
		&models.CircuitTeam{},
		&models.College{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newPlayerService(t *testing.T) *PlayerService {
	t.Helper()
	return NewPlayerService(NewPlayerRepository(newTestDB(t)))
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestPlayerUpsertReplacesInsteadOfDuplicating(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, UpsertPlayerDTO{
		Name:      "Jada Williams",
		Position:  strPtr("PG"),
		GradeYear: intPtr(2027),
		Rank:      intPtr(4),
		Ranks:     types.SeasonRanks{"2026": 7},
	})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	second, err := svc.Upsert(ctx, UpsertPlayerDTO{
		Name:     "Jada Williams",
		Position: strPtr("SG"),
		Rank:     intPtr(2),
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("upsert must reuse the existing row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Position == nil || *second.Position != "SG" {
		t.Fatalf("expected replaced position SG, got %v", second.Position)
	}
	// Whole-record replace: the omitted grade year and ranks map are cleared.
	if second.GradeYear != nil {
		t.Fatalf("expected grade year cleared, got %v", *second.GradeYear)
	}

	page, err := svc.List(ctx, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected a single row after double upsert, got %d", page.Total)
	}
}

func TestPlayerUpsertRequiresName(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertPlayerDTO{Name: "   "})
	expectCode(t, err, pkgerrors.CodeValidation)

	page, err := svc.List(ctx, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("validation failure must not write, found %d rows", page.Total)
	}
}

func TestPlayerPatchMergesSeasonMaps(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertPlayerDTO{
		Name:     "Aaliyah Chavez",
		Hometown: strPtr("Lubbock, TX"),
		Rank:     intPtr(1),
		Ranks:    types.SeasonRanks{"2024": 3, "2025": 1},
		Ratings:  types.SeasonRatings{"2025": 98.5},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	patched, err := svc.Patch(ctx, created.ID, PatchPlayerDTO{
		Ranks:  types.SeasonRanks{"2025": 2, "2026": 1},
		Rating: floatPtr(99.0),
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	// Sibling season keys survive, patched keys overwrite, new keys land.
	if got := patched.Ranks["2024"]; got != 3 {
		t.Fatalf("sibling key 2024 should stay 3, got %d", got)
	}
	if got := patched.Ranks["2025"]; got != 2 {
		t.Fatalf("patched key 2025 should be 2, got %d", got)
	}
	if got := patched.Ranks["2026"]; got != 1 {
		t.Fatalf("new key 2026 should be 1, got %d", got)
	}
	if got := patched.Ratings["2025"]; got != 98.5 {
		t.Fatalf("untouched ratings map changed: %v", patched.Ratings)
	}

	// Untouched scalars stay, supplied scalars overwrite. The current rank is
	// never recomputed from the map.
	if patched.Hometown == nil || *patched.Hometown != "Lubbock, TX" {
		t.Fatalf("hometown should survive the patch, got %v", patched.Hometown)
	}
	if patched.Rank == nil || *patched.Rank != 1 {
		t.Fatalf("scalar rank should stay 1, got %v", patched.Rank)
	}
	if patched.Rating == nil || *patched.Rating != 99.0 {
		t.Fatalf("rating should be overwritten to 99.0, got %v", patched.Rating)
	}

	reloaded, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := reloaded.Ranks["2024"]; got != 3 {
		t.Fatalf("persisted sibling key 2024 should stay 3, got %d", got)
	}
}

func TestPlayerPatchUnknownID(t *testing.T) {
	svc := newPlayerService(t)

	_, err := svc.Patch(context.Background(), 999, PatchPlayerDTO{Rank: intPtr(5)})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestPlayerReplaceOverwritesWholeRecord(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertPlayerDTO{
		Name:      "Kate Harpring",
		GradeYear: intPtr(2026),
		Ranks:     types.SeasonRanks{"2025": 6},
		Offers:    []string{"Georgia Tech", "UNC"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	replaced, err := svc.Replace(ctx, created.ID, UpsertPlayerDTO{
		Name: "Kate Harpring",
		Rank: intPtr(9),
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if replaced.ID != created.ID {
		t.Fatalf("replace must keep the id, got %d", replaced.ID)
	}
	if replaced.GradeYear != nil || len(replaced.Ranks) != 0 || len(replaced.Offers) != 0 {
		t.Fatalf("replace must drop omitted fields, got %+v", replaced)
	}
	if replaced.Rank == nil || *replaced.Rank != 9 {
		t.Fatalf("expected rank 9, got %v", replaced.Rank)
	}

	_, err = svc.Replace(ctx, 999, UpsertPlayerDTO{Name: "Ghost"})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestPlayerSeasonFilterMatchesGradeYearOrRanks(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	seed := []UpsertPlayerDTO{
		{Name: "Grade Year Match", GradeYear: intPtr(2026)},
		{Name: "Ranks Match", GradeYear: intPtr(2028), Rank: intPtr(12), Ranks: types.SeasonRanks{"2026": 5}},
		{Name: "No Match", GradeYear: intPtr(2027), Ranks: types.SeasonRanks{"2027": 1}},
	}
	for _, dto := range seed {
		if _, err := svc.Upsert(ctx, dto); err != nil {
			t.Fatalf("seed %q: %v", dto.Name, err)
		}
	}

	page, err := svc.List(ctx, ListQuery{Season: "2026"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 season matches, got %d", page.Total)
	}

	byName := map[string]PlayerDTO{}
	for _, item := range page.Items {
		byName[item.Name] = item
	}
	if _, ok := byName["No Match"]; ok {
		t.Fatal("player without a 2026 grade year or ranks entry must not match")
	}

	// season_rank prefers the season's map entry and falls back to the scalar.
	if got := byName["Ranks Match"].SeasonRank; got == nil || *got != 5 {
		t.Fatalf("expected season_rank 5 from the ranks map, got %v", got)
	}
	if got := byName["Grade Year Match"].SeasonRank; got != nil {
		t.Fatalf("player without rank data should have nil season_rank, got %v", *got)
	}
}

func TestPlayerSeasonFilterNonNumericLabel(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	seed := []UpsertPlayerDTO{
		{Name: "Fall Entry", Ranks: types.SeasonRanks{"fall-2026": 3}},
		{Name: "Spring Entry", GradeYear: intPtr(2026), Ranks: types.SeasonRanks{"spring-2026": 8}},
	}
	for _, dto := range seed {
		if _, err := svc.Upsert(ctx, dto); err != nil {
			t.Fatalf("seed %q: %v", dto.Name, err)
		}
	}

	// A non-numeric label can never match grade_year, only the ranks map.
	page, err := svc.List(ctx, ListQuery{Season: "fall-2026"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 match for fall-2026, got %d", page.Total)
	}
	if page.Items[0].Name != "Fall Entry" {
		t.Fatalf("expected Fall Entry, got %q", page.Items[0].Name)
	}
	if got := page.Items[0].SeasonRank; got == nil || *got != 3 {
		t.Fatalf("expected season_rank 3, got %v", got)
	}
}

func TestPlayerNameFilterIsCaseInsensitiveSubstring(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	for _, name := range []string{"Jerzy Robinson", "Sydney Douglas", "Robin Hood"} {
		if _, err := svc.Upsert(ctx, UpsertPlayerDTO{Name: name}); err != nil {
			t.Fatalf("seed %q: %v", name, err)
		}
	}

	page, err := svc.List(ctx, ListQuery{Name: "robin"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 substring matches, got %d", page.Total)
	}
}

func TestPlayerListClampsWindow(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		if _, err := svc.Upsert(ctx, UpsertPlayerDTO{Name: name}); err != nil {
			t.Fatalf("seed %q: %v", name, err)
		}
	}

	page, err := svc.List(ctx, ListQuery{Page: pagination.Params{Limit: 10000, Offset: -5}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Limit != pagination.MaxLimit {
		t.Fatalf("limit should clamp to %d, got %d", pagination.MaxLimit, page.Limit)
	}
	if page.Offset != 0 {
		t.Fatalf("offset should clamp to 0, got %d", page.Offset)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("expected all 3 rows, got total=%d len=%d", page.Total, len(page.Items))
	}

	page, err = svc.List(ctx, ListQuery{Page: pagination.Params{Limit: -1}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Limit != pagination.MinLimit || len(page.Items) != 1 {
		t.Fatalf("negative limit should clamp to %d row, got limit=%d len=%d",
			pagination.MinLimit, page.Limit, len(page.Items))
	}
}

func TestPlayerListOrderedByID(t *testing.T) {
	svc := newPlayerService(t)
	ctx := context.Background()

	for _, name := range []string{"Zoe", "Amy", "Mia"} {
		if _, err := svc.Upsert(ctx, UpsertPlayerDTO{Name: name}); err != nil {
			t.Fatalf("seed %q: %v", name, err)
		}
	}

	page, err := svc.List(ctx, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i-1].ID >= page.Items[i].ID {
			t.Fatalf("players must list in id order, got %d before %d",
				page.Items[i-1].ID, page.Items[i].ID)
		}
	}
}

func TestHighSchoolCRUD(t *testing.T) {
	conn := newTestDB(t)
	svc := NewHighSchoolService(NewHighSchoolRepository(conn))
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertHighSchoolDTO{
		School: "Montverde Academy",
		State:  strPtr("FL"),
		Ranks:  types.SeasonRanks{"2025": 1},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	_, err = svc.Upsert(ctx, UpsertHighSchoolDTO{School: ""})
	expectCode(t, err, pkgerrors.CodeValidation)

	patched, err := svc.Patch(ctx, created.ID, PatchHighSchoolDTO{
		Ranks: types.SeasonRanks{"2026": 2},
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if patched.Ranks["2025"] != 1 || patched.Ranks["2026"] != 2 {
		t.Fatalf("expected merged ranks, got %v", patched.Ranks)
	}

	page, err := svc.List(ctx, ListQuery{Name: "montverde"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 match, got %d", page.Total)
	}

	_, err = svc.GetByID(ctx, 999)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestHighSchoolListOrderedBySchool(t *testing.T) {
	svc := NewHighSchoolService(NewHighSchoolRepository(newTestDB(t)))
	ctx := context.Background()

	for _, school := range []string{"Sierra Canyon", "Archbishop Mitty", "Long Island Lutheran"} {
		if _, err := svc.Upsert(ctx, UpsertHighSchoolDTO{School: school}); err != nil {
			t.Fatalf("seed %q: %v", school, err)
		}
	}

	page, err := svc.List(ctx, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Archbishop Mitty", "Long Island Lutheran", "Sierra Canyon"}
	for i, item := range page.Items {
		if item.School != want[i] {
			t.Fatalf("expected %q at position %d, got %q", want[i], i, item.School)
		}
	}
}

func TestCircuitTeamRosterMerge(t *testing.T) {
	svc := NewCircuitTeamService(NewCircuitTeamRepository(newTestDB(t)))
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertCircuitTeamDTO{
		Team:    "Sports City U",
		Circuit: strPtr("Nike EYBL"),
		Rosters: types.SeasonRosters{"2024": {"Player A", "Player B"}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	patched, err := svc.Patch(ctx, created.ID, PatchCircuitTeamDTO{
		Rosters: types.SeasonRosters{"2025": {"Player C"}},
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if len(patched.Rosters["2024"]) != 2 {
		t.Fatalf("2024 roster should survive, got %v", patched.Rosters)
	}
	if len(patched.Rosters["2025"]) != 1 {
		t.Fatalf("2025 roster should be added, got %v", patched.Rosters)
	}
	if patched.Circuit == nil || *patched.Circuit != "Nike EYBL" {
		t.Fatalf("circuit should survive the patch, got %v", patched.Circuit)
	}
}

func TestCollegeUpsertAndCommits(t *testing.T) {
	svc := NewCollegeService(NewCollegeRepository(newTestDB(t)))
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertCollegeDTO{
		Name:       "South Carolina",
		Conference: strPtr("SEC"),
		Commits:    types.SeasonRosters{"2026": {"Commit One"}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	patched, err := svc.Patch(ctx, created.ID, PatchCollegeDTO{
		Commits: types.SeasonRosters{"2027": {"Commit Two"}},
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if len(patched.Commits["2026"]) != 1 || len(patched.Commits["2027"]) != 1 {
		t.Fatalf("expected merged commit classes, got %v", patched.Commits)
	}

	again, err := svc.Upsert(ctx, UpsertCollegeDTO{Name: "South Carolina", Division: strPtr("D1")})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("upsert must reuse the row, got ids %d and %d", created.ID, again.ID)
	}
	if again.Conference != nil {
		t.Fatalf("whole-record replace should clear conference, got %v", *again.Conference)
	}
}
