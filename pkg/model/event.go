package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event domain object defining a calendar event. Start and finish are stored as instants, the
// zone they were submitted in is not persisted.
// swagger:model
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	StartAt     time.Time `gorm:"not null;index" json:"startAt"`
	FinishAt    time.Time `gorm:"not null" json:"finishAt"`
	Location    *string   `json:"location"`
}

// BeforeCreate assigns the id. Ids are never reassigned once set.
func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
