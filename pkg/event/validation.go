package event

import (
	"regexp"

	"github.com/dhis2-sre/im-calendar/internal/handler"
	"github.com/dhis2-sre/im-calendar/pkg/calendar"
	"github.com/go-playground/validator/v10"
)

var eventTextPattern = regexp.MustCompile(`^[A-Za-z0-9\s\-@]+$`)

func eventText(fl validator.FieldLevel) bool {
	return eventTextPattern.MatchString(fl.Field().String())
}

func sameDay(sl validator.StructLevel) {
	request, ok := sl.Current().Interface().(CreateEventRequest)
	if !ok || !calendar.SameDayOrdered(request.StartAt.Ptr(), request.FinishAt.Ptr()) {
		sl.ReportError(nil, "", "", "sameday", "")
	}
}

// RegisterValidation registers the rules event requests are validated with on the engine gin binds
// requests with.
func RegisterValidation() error {
	v, err := handler.Validator()
	if err != nil {
		return err
	}

	if err := v.RegisterValidation("eventtext", eventText); err != nil {
		return err
	}
	v.RegisterStructValidation(sameDay, CreateEventRequest{})

	handler.RegisterMessage("eventtext", func(fe validator.FieldError) string {
		return fe.StructField() + " must contain only alphanumeric characters, spaces, hyphens, and @ symbols"
	})
	handler.RegisterMessage("sameday", func(validator.FieldError) string {
		return SameDayMessage
	})

	return nil
}
