package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"email":       "{field} must be a valid email address",
	"phone":       "{field} must be a valid phone number",
	"oneof":       "{field} must be one of {param}",
	"unique":      "{field} must not contain duplicates",
	"min":         "{field} must be at least {param}",
	"max":         "{field} must be at most {param}",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"nefield":     "{field} must differ from {param}",
	"latitude":    "{field} must be a valid latitude",
	"longitude":   "{field} must be a valid longitude",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
	"configured":  "{field} is invalid",
}

// message renders the first failing rule that has a template.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, valErr := range valErrors {
		template, ok := messages[valErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(template)
	}

	return valErrors.Error()
}
