package utils

import (
	"bytes"
	"errors"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"
)

// ProcessValidationErrors maps each failing field to the tag that rejected it.
// Non-validator errors yield an empty map.
func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errorResponse
	}
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

// execute given template and return generated string
func ExecTemplate(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", errors.New("failed to execute template: " + err.Error())
	}
	return b.String(), nil
}

// ValueOrBlank returns v, or the given blank placeholder when v is empty after trimming.
func ValueOrBlank(v string, blank string) string {
	if strings.TrimSpace(v) == "" {
		return blank
	}
	return v
}
