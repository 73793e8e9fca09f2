package handler

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RequestBodyField is the field reported for violations of rules spanning the whole request body.
const RequestBodyField = "Request Body"

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// jsonName reports fields by their JSON name so violations match what the client sent.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// RegisterValidation Inspiration: https://blog.logrocket.com/gin-binding-in-go-a-tutorial-with-examples/
func RegisterValidation() error {
	v, err := Validator()
	if err != nil {
		return err
	}

	v.RegisterTagNameFunc(jsonName)
	return v.RegisterValidation("notblank", notBlank)
}

// Validator returns the validation engine used by gin when binding requests.
func Validator() (*validator.Validate, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v, nil
	}
	return nil, fmt.Errorf("error getting validation engine")
}

// MessageFunc describes a validation failure to the client.
type MessageFunc func(fe validator.FieldError) string

var messages = struct {
	sync.RWMutex
	byTag map[string]MessageFunc
}{
	byTag: map[string]MessageFunc{
		"required": func(fe validator.FieldError) string {
			if fe.Kind() == reflect.String {
				return "must not be blank"
			}
			return "must not be null"
		},
		"notblank": func(validator.FieldError) string { return "must not be blank" },
	},
}

// RegisterMessage sets the message reported for violations of the validation tag.
func RegisterMessage(tag string, message MessageFunc) {
	messages.Lock()
	defer messages.Unlock()
	messages.byTag[tag] = message
}

// Message describes fe to the client using the message registered for its tag.
func Message(fe validator.FieldError) string {
	messages.RLock()
	message, ok := messages.byTag[fe.Tag()]
	messages.RUnlock()
	if ok {
		return message(fe)
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}

// Field returns the name of the field fe was reported for. Violations not bound to a single field
// are reported for the request body.
func Field(fe validator.FieldError) string {
	if fe.Field() == "" {
		return RequestBodyField
	}
	return fe.Field()
}
