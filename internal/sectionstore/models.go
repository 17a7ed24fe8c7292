package sectionstore

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DocumentModel is the section_documents row.
type DocumentModel struct {
	bun.BaseModel `bun:"table:section_documents,alias:sd"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	Key       string    `bun:"key,notnull,unique"`
	Domain    string    `bun:"domain,notnull"`
	Section   string    `bun:"section,notnull"`
	Locale    string    `bun:"locale,notnull"`
	Data      string    `bun:"data,notnull"`
	Version   int       `bun:"version,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func modelToRecord(model *DocumentModel) Record {
	if model == nil {
		return Record{}
	}
	return Record{
		ID: model.ID,
		Key: Key{
			Domain:  model.Domain,
			Section: model.Section,
			Locale:  model.Locale,
		},
		Data:      json.RawMessage(model.Data),
		Version:   model.Version,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
