// Package gormstore keeps events in a SQL database through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/irlens/atlas/internal/database"
	"github.com/irlens/atlas/internal/model"
	"github.com/irlens/atlas/internal/model/convert"
	"github.com/irlens/atlas/pkg/core"
)

// Backend stores one row per event.
type Backend struct {
	db *database.Manager
}

// New wraps a connected database manager.
func New(db *database.Manager) *Backend {
	return &Backend{db: db}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	return b.db.Setup()
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Get(ctx context.Context, id string) (*core.Event, error) {
	var row model.Event
	err := b.db.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", core.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading event %s: %w", id, err)
	}
	return convert.EventToCore(row)
}

func (b *Backend) List(ctx context.Context) ([]*core.Event, error) {
	var rows []model.Event
	if err := b.db.DB.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return toCore(rows, func(string) bool { return true })
}

func (b *Backend) ListByPrefix(ctx context.Context, baseID string) ([]*core.Event, error) {
	var rows []model.Event
	err := b.db.DB.WithContext(ctx).
		Where("id = ? OR id LIKE ? ESCAPE '\\'", baseID, escapeLike(baseID)+"-%").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing events for %s: %w", baseID, err)
	}
	// LIKE is case-insensitive on some dialects
	return toCore(rows, func(id string) bool { return core.IsVariantOf(id, baseID) })
}

func (b *Backend) Put(ctx context.Context, ev *core.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	row, err := convert.CoreToEvent(ev)
	if err != nil {
		return err
	}
	if err := b.db.DB.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("saving event %s: %w", ev.ID, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, id string) error {
	res := b.db.DB.WithContext(ctx).Delete(&model.Event{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting event %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", core.ErrEventNotFound, id)
	}
	return nil
}

// Dump copies a sqlite database to path, replacing any file there.
func (b *Backend) Dump(path string) error {
	return b.db.DumpToDisk(path)
}

func toCore(rows []model.Event, keep func(id string) bool) ([]*core.Event, error) {
	out := make([]*core.Event, 0, len(rows))
	for _, row := range rows {
		if !keep(row.ID) {
			continue
		}
		ev, err := convert.EventToCore(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
