package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/dhis2-sre/im-calendar/pkg/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, event *model.Event) error {
	// only cancel on parent cancel
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil {
		return fmt.Errorf("failed to create event: %v", err)
	}
	return nil
}

func (r repository) find(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("event not found with id: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event %q: %v", id, err)
	}

	return event, nil
}

// save writes every column of event. The row is inserted if it does not exist.
func (r repository) save(ctx context.Context, event *model.Event) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Save(event).Error
	if err != nil {
		return fmt.Errorf("failed to save event %q: %v", event.ID, err)
	}
	return nil
}

// delete removes the event with the given id. Deleting an id which does not exist is not an error.
func (r repository) delete(ctx context.Context, id uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	err := r.db.WithContext(ctx).Delete(&model.Event{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete event %q: %v", id, err)
	}
	return nil
}

// findByStartAtBetween returns the events starting within [from, to], both bounds inclusive.
func (r repository) findByStartAtBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		WithContext(ctx).
		Where("start_at BETWEEN ? AND ?", from, to).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find events between %s and %s: %v", from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}

	return events, nil
}
