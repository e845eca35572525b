package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"taskpal/config"
	"taskpal/shared/constant"
	"taskpal/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1024 * 1024

var (
	validate *val.Validate

	// Digits with an optional leading plus, spaces or dashes as separators.
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 -]{5,18}[0-9]$`)
)

func fileHeader(field val.FieldLevel) *multipart.FileHeader {
	switch file := field.Field().Interface().(type) {
	case multipart.FileHeader:
		return &file
	case *multipart.FileHeader:
		return file
	}

	return nil
}

// mimetypes=image/png application/pdf checks the declared content type of an upload.
func validateMimetypes(field val.FieldLevel) bool {
	file := fileHeader(field)
	if file == nil {
		return false
	}

	contentType := file.Header.Get(constant.RequestHeaderContentType)
	if contentType == "" {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// maxfilesize=5 caps an upload at 5 MB.
func validateMaxFileSize(field val.FieldLevel) bool {
	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	file := fileHeader(field)
	if file == nil {
		return true
	}

	return float64(file.Size) <= maxSizeMB*bytesPerMB
}

func validatePhone(field val.FieldLevel) bool {
	return phonePattern.MatchString(field.Field().String())
}

// configured delegates to a Validate(*config.Config) error method on the field type.
func validateConfigured(cfg *config.Config) val.Func {
	return func(field val.FieldLevel) bool {
		method := field.Field().MethodByName("Validate")
		if !method.IsValid() {
			return false
		}

		result := method.Call([]reflect.Value{reflect.ValueOf(cfg)})

		return result[0].IsNil()
	}
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	rules := map[string]val.Func{
		"configured":  validateConfigured(config.Get()),
		"mimetypes":   validateMimetypes,
		"maxfilesize": validateMaxFileSize,
		"phone":       validatePhone,
	}

	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// jsonName reports fields by their json key so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and validates it.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
