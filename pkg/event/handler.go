package event

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/dhis2-sre/im-calendar/internal/handler"
	"github.com/dhis2-sre/im-calendar/pkg/calendar"
	"github.com/dhis2-sre/im-calendar/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewHandler(service eventService) Handler {
	return Handler{service: service}
}

type Handler struct {
	service eventService
}

type eventService interface {
	Create(ctx context.Context, newEvent NewEvent) (*model.Event, error)
	Find(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, patch EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindPreviewsForMonth(ctx context.Context, reference time.Time) ([]model.Event, error)
}

// CreateEventRequest start and finish must fall on the same day, in the zone they are given in,
// with start before finish.
// swagger:model
type CreateEventRequest struct {
	Title       string              `json:"title" binding:"required,notblank,eventtext"`
	Description string              `json:"description" binding:"required,notblank,eventtext"`
	StartAt     *calendar.ZonedTime `json:"startAt" binding:"required"`
	FinishAt    *calendar.ZonedTime `json:"finishAt" binding:"required"`
	Location    *string             `json:"location" binding:"omitnil,eventtext"`
}

// UpdateEventRequest replaces every field of an event. Unlike on creation, the text and same day
// rules are not applied. Title and description may be empty but not null.
// swagger:model
type UpdateEventRequest struct {
	Title       *string             `json:"title" binding:"required"`
	Description *string             `json:"description" binding:"required"`
	StartAt     *calendar.ZonedTime `json:"startAt" binding:"required"`
	FinishAt    *calendar.ZonedTime `json:"finishAt" binding:"required"`
	Location    *string             `json:"location"`
}

type monthPreviewQuery struct {
	Date string `form:"date" json:"date" binding:"required"`
}

// Create event
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /events createEvent
	//
	// Create event
	//
	// Create an event. Start and finish must be on the same day with start before finish.
	//
	// responses:
	//   200: EventResponse
	//   400: ErrorResponse
	//   415: ErrorResponse
	var request CreateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.service.Create(c.Request.Context(), NewEvent{
		Title:       request.Title,
		Description: request.Description,
		StartAt:     request.StartAt.Time,
		FinishAt:    request.FinishAt.Time,
		Location:    request.Location,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(*event))
}

// Find event by id
func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /events/{id} findEvent
	//
	// Find event
	//
	// Find an event by its id
	//
	// responses:
	//   200: EventResponse
	//   400: ErrorResponse
	//   404: ErrorResponse
	id, ok := handler.GetUUIDPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.service.Find(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(*event))
}

// Update event
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /events/{id} updateEvent
	//
	// Update event
	//
	// Replace every field of an event
	//
	// responses:
	//   200: EventResponse
	//   400: ErrorResponse
	//   404: ErrorResponse
	//   415: ErrorResponse
	id, ok := handler.GetUUIDPathParameter(c, "id")
	if !ok {
		return
	}

	var request UpdateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.service.Update(c.Request.Context(), id, EventPatch{
		Title:       *request.Title,
		Description: *request.Description,
		StartAt:     request.StartAt.Time,
		FinishAt:    request.FinishAt.Time,
		Location:    request.Location,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToResponse(*event))
}

// Delete event
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /events/{id} deleteEvent
	//
	// Delete event
	//
	// Delete an event by its id. Deleting an event which does not exist succeeds.
	//
	// responses:
	//   200:
	//   400: ErrorResponse
	id, ok := handler.GetUUIDPathParameter(c, "id")
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}

// FindPreviewsForMonth find events of a month
func (h Handler) FindPreviewsForMonth(c *gin.Context) {
	// swagger:route GET /events/previews/month findEventPreviewsForMonth
	//
	// Find event previews for month
	//
	// Find the events starting in the month of the given date, in the zone of the given date
	//
	// responses:
	//   200: []PreviewResponse
	//   400: ErrorResponse
	var query monthPreviewQuery
	if err := handler.QueryBinder(c, &query); err != nil {
		_ = c.Error(err)
		return
	}

	reference, err := calendar.ParseZoned(restorePlus(query.Date))
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("invalid date: %v", err))
		return
	}

	events, err := h.service.FindPreviewsForMonth(c.Request.Context(), reference)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToPreviews(events))
}

// restorePlus undoes the decoding of an unescaped '+' in a UTC offset into a space.
func restorePlus(date string) string {
	return strings.ReplaceAll(date, " ", "+")
}
