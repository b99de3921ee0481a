package rankings

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hoopscout/hoopscout-backend/pkg/db"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
	"github.com/hoopscout/hoopscout-backend/pkg/types"
)

// PlayerStore is the persistence surface the player service needs.
type PlayerStore interface {
	List(ctx context.Context, q ListQuery) ([]models.Player, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Player, error)
	Upsert(ctx context.Context, row *models.Player) (*models.Player, error)
	Save(ctx context.Context, row *models.Player) error
}

// PlayerService implements the player read and write operations.
type PlayerService struct {
	store PlayerStore
}

func NewPlayerService(store PlayerStore) *PlayerService {
	return &PlayerService{store: store}
}

func (s *PlayerService) List(ctx context.Context, q ListQuery) (*types.Page[PlayerDTO], error) {
	q = q.Normalize()

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list players")
	}

	items := make([]PlayerDTO, 0, len(rows))
	for i := range rows {
		items = append(items, playerToDTO(&rows[i], q.Season))
	}
	return &types.Page[PlayerDTO]{
		Items:  items,
		Total:  total,
		Limit:  q.Page.Limit,
		Offset: q.Page.Offset,
	}, nil
}

func (s *PlayerService) GetByID(ctx context.Context, id uint) (*PlayerDTO, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "player not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch player")
	}
	dto := playerToDTO(row, "")
	return &dto, nil
}

// Upsert creates or fully replaces the player keyed by name. An empty name
// fails validation before any write happens.
func (s *PlayerService) Upsert(ctx context.Context, dto UpsertPlayerDTO) (*PlayerDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	saved, err := s.store.Upsert(ctx, dto.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "upsert player")
	}
	out := playerToDTO(saved, "")
	return &out, nil
}

// Patch applies a partial update to the row at id. Supplied scalars
// overwrite, supplied season maps merge per key, absent fields stay as-is.
func (s *PlayerService) Patch(ctx context.Context, id uint, dto PatchPlayerDTO) (*PlayerDTO, error) {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}

	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "player not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch player")
	}

	dto.apply(row)
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another player already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "save player")
	}
	out := playerToDTO(row, "")
	return &out, nil
}

// Replace overwrites the whole record at id with the supplied payload.
func (s *PlayerService) Replace(ctx context.Context, id uint, dto UpsertPlayerDTO) (*PlayerDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "player not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch player")
	}

	row := dto.toModel()
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.store.Save(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another player already has that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "replace player")
	}
	out := playerToDTO(row, "")
	return &out, nil
}
