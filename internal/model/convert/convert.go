// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"fmt"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"github.com/irlens/atlas/internal/model"
	"github.com/irlens/atlas/pkg/core"
)

// CoreToEvent converts a core.Event to its database row.
func CoreToEvent(ev *core.Event) (model.Event, error) {
	payload, err := sonic.ConfigStd.Marshal(ev)
	if err != nil {
		return model.Event{}, fmt.Errorf("encoding event %s: %w", ev.ID, err)
	}
	base, theory := core.SplitTheoryID(ev.ID)
	return model.Event{
		ID:                  ev.ID,
		BaseID:              base,
		Theory:              theory,
		Title:               ev.Title,
		StartYear:           ev.Period.StartYear,
		EndYear:             ev.Period.EndYear,
		HistoricalMapPeriod: ev.HistoricalMapPeriod,
		Payload:             datatypes.JSON(payload),
	}, nil
}

// EventToCore decodes a database row. The row id wins over any id in the payload.
func EventToCore(row model.Event) (*core.Event, error) {
	var ev core.Event
	if len(row.Payload) > 0 {
		if err := sonic.ConfigStd.Unmarshal(row.Payload, &ev); err != nil {
			return nil, fmt.Errorf("decoding event %s: %w", row.ID, err)
		}
	}
	ev.ID = row.ID
	return &ev, nil
}
