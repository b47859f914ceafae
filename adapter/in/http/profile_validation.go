package http

import (
	"errors"
	"reflect"
	"strings"

	"profile_server/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

const validationMessage = "validation failed"

// fieldMessages maps json field and failed tag to the client message.
// A field without a tag entry falls back to its "*" message.
var fieldMessages = map[string]map[string]string{
	"email": {
		"required": "should not be empty!",
		"email":    "email format is not correct!",
	},
	"firstName": {
		"*": "user first name should have at least 2 characters!",
	},
	"lastName": {
		"*": "user last name should have at least 2 characters!",
	},
	"birthDate": {
		"required": "should not be empty!",
		"past":     "must contain a past date!",
	},
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts validator output into a VALIDATION_FAILED error
// with one message per field. extra holds checks done outside the validator.
func validationError(err error, extra map[string]string) error {
	fields := make(map[string]string, len(extra))
	for field, msg := range extra {
		fields[field] = msg
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = messageFor(fe.Field(), fe.Tag())
		}
	} else if err != nil {
		return apperr.BadRequest("invalid request body").WithError(err)
	}

	if len(fields) == 0 {
		return nil
	}
	return apperr.ValidationFailed(validationMessage, fields)
}

func messageFor(field, tag string) string {
	if msgs, ok := fieldMessages[field]; ok {
		if msg, ok := msgs[tag]; ok {
			return msg
		}
		if msg, ok := msgs["*"]; ok {
			return msg
		}
	}
	return "failed on the '" + tag + "' rule"
}
