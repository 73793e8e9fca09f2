package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/dhis2-sre/im-calendar/pkg/calendar"
	"github.com/dhis2-sre/im-calendar/pkg/model"
	"github.com/google/uuid"
)

// SameDayMessage describes a violation of the rule that an event starts and finishes on the same
// day with start strictly before finish.
const SameDayMessage = "start and finish dates must be on the same day and start must be before finish"

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, repository eventRepository, publisher Publisher) *Service {
	return &Service{
		logger:     logger,
		repository: repository,
		publisher:  publisher,
	}
}

type eventRepository interface {
	create(ctx context.Context, event *model.Event) error
	find(ctx context.Context, id uuid.UUID) (*model.Event, error)
	save(ctx context.Context, event *model.Event) error
	delete(ctx context.Context, id uuid.UUID) error
	findByStartAtBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
}

// Publisher notifies other services of changes to events. Publishing is skipped if no Publisher
// is given.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

type Service struct {
	logger     *slog.Logger
	repository eventRepository
	publisher  Publisher
}

// NewEvent holds the fields of an event to be created. StartAt and FinishAt carry the zone they
// were submitted in, which decides the calendar day they fall on.
type NewEvent struct {
	Title       string
	Description string
	StartAt     time.Time
	FinishAt    time.Time
	Location    *string
}

// EventPatch holds the fields replacing those of an existing event.
type EventPatch struct {
	Title       string
	Description string
	StartAt     time.Time
	FinishAt    time.Time
	Location    *string
}

func (s *Service) Create(ctx context.Context, newEvent NewEvent) (*model.Event, error) {
	s.logger.DebugContext(ctx, "Creating event", "title", newEvent.Title)

	if !calendar.SameDayOrdered(&newEvent.StartAt, &newEvent.FinishAt) {
		return nil, errdef.NewBadRequest(SameDayMessage)
	}

	event := &model.Event{
		Title:       newEvent.Title,
		Description: newEvent.Description,
		StartAt:     newEvent.StartAt.UTC(),
		FinishAt:    newEvent.FinishAt.UTC(),
		Location:    newEvent.Location,
	}
	err := s.repository.create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, newChange(Created, event.ID, event))

	return event, nil
}

func (s *Service) Find(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	s.logger.DebugContext(ctx, "Finding event", "id", id)
	return s.repository.find(ctx, id)
}

// Update replaces every field of the event with the given id. The same day rule is not applied on
// update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch EventPatch) (*model.Event, error) {
	s.logger.DebugContext(ctx, "Updating event", "id", id)

	existing, err := s.repository.find(ctx, id)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:          existing.ID,
		Title:       patch.Title,
		Description: patch.Description,
		StartAt:     patch.StartAt.UTC(),
		FinishAt:    patch.FinishAt.UTC(),
		Location:    patch.Location,
	}
	err = s.repository.save(ctx, event)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, newChange(Updated, event.ID, event))

	return event, nil
}

// Delete removes the event with the given id. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.DebugContext(ctx, "Deleting event", "id", id)

	err := s.repository.delete(ctx, id)
	if err != nil {
		return err
	}

	s.publish(ctx, newChange(Deleted, id, nil))

	return nil
}

// FindPreviewsForMonth returns the events starting within the calendar month of reference, as seen
// in the location of reference.
func (s *Service) FindPreviewsForMonth(ctx context.Context, reference time.Time) ([]model.Event, error) {
	start, end := calendar.MonthWindow(reference)
	s.logger.DebugContext(ctx, "Finding events for month", "reference", reference, "start", start, "end", end)

	return s.repository.findByStartAtBetween(ctx, start, end)
}

func (s *Service) publish(ctx context.Context, change Change) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, change)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event change", "kind", change.Kind, "id", change.ID, "error", err)
	}
}
