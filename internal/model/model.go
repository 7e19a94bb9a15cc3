package model

import (
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&AtlasInfo{},
	&Event{},
}

// AtlasInfo records the schema version of a database.
type AtlasInfo struct {
	ID            uint      `gorm:"primarykey"`
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (*AtlasInfo) TableName() string {
	return "atlas_infos"
}

// Event is a stored event. The full aggregate lives in Payload; the other columns are
// copies used for lookups and listing.
type Event struct {
	ID                  string         `json:"id" gorm:"primaryKey;size:191"`
	BaseID              string         `json:"baseId" gorm:"index;size:191"`
	Theory              string         `json:"theory" gorm:"size:32"`
	Title               string         `json:"title" gorm:"size:255"`
	StartYear           int            `json:"startYear" gorm:"index"`
	EndYear             int            `json:"endYear"`
	HistoricalMapPeriod string         `json:"historicalMapPeriod" gorm:"size:32"`
	Payload             datatypes.JSON `json:"payload"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (*Event) TableName() string {
	return "events"
}
