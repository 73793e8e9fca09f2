package event

import (
	"time"

	"github.com/dhis2-sre/im-calendar/pkg/model"
	"github.com/google/uuid"
)

// EventResponse is the representation of an event returned by the API. Timestamps are in UTC.
// swagger:model
type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"startAt"`
	FinishAt    time.Time `json:"finishAt"`
	Location    *string   `json:"location"`
}

// PreviewResponse is the short form of an event listed in month previews.
// swagger:model
type PreviewResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	StartAt  time.Time `json:"startAt"`
	FinishAt time.Time `json:"finishAt"`
	Location *string   `json:"location"`
}

func ToResponse(event model.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartAt:     event.StartAt.UTC(),
		FinishAt:    event.FinishAt.UTC(),
		Location:    event.Location,
	}
}

func ToPreview(event model.Event) PreviewResponse {
	return PreviewResponse{
		ID:       event.ID,
		Title:    event.Title,
		StartAt:  event.StartAt.UTC(),
		FinishAt: event.FinishAt.UTC(),
		Location: event.Location,
	}
}

// ToPreviews keeps the order of events. An empty slice is returned for no events so it encodes as
// an empty JSON array.
func ToPreviews(events []model.Event) []PreviewResponse {
	previews := make([]PreviewResponse, 0, len(events))
	for _, event := range events {
		previews = append(previews, ToPreview(event))
	}
	return previews
}
