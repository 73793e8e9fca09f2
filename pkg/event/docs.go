package event

// swagger:parameters createEvent
type _ struct {
	// Create event request body parameter
	// in: body
	// required: true
	Body CreateEventRequest
}

// swagger:parameters updateEvent
type _ struct {
	// Update event request body parameter
	// in: body
	// required: true
	Body UpdateEventRequest
}

// swagger:parameters findEvent updateEvent deleteEvent
type _ struct {
	// in: path
	// required: true
	// format: uuid
	ID string `json:"id"`
}

// swagger:parameters findEventPreviewsForMonth
type _ struct {
	// Zoned timestamp deciding the month and the zone of its boundaries
	// in: query
	// required: true
	Date string `json:"date"`
}

// swagger:response EventResponse
type _ struct {
	// in: body
	_ EventResponse
}

// swagger:response PreviewsResponse
type _ struct {
	// in: body
	_ []PreviewResponse
}
