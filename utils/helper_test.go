package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValueOrBlank(t *testing.T) {
	if got := ValueOrBlank("  ", "___"); got != "___" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := ValueOrBlank("João", "___"); got != "João" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestProcessValidationErrors(t *testing.T) {
	type input struct {
		Name string `validate:"required"`
		Date string `validate:"required,datetime=2006-01-02"`
	}
	err := validator.New().Struct(input{Date: "15/01/2024"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fields := ProcessValidationErrors(err)
	if fields["Name"] != "required" {
		t.Fatalf("expected Name=required, got %v", fields)
	}
	if fields["Date"] != "datetime" {
		t.Fatalf("expected Date=datetime, got %v", fields)
	}

	if got := ProcessValidationErrors(errors.New("boom")); len(got) != 0 {
		t.Fatalf("expected empty map for non-validator error, got %v", got)
	}
}

func TestCorrelationIdContext(t *testing.T) {
	ctx := SetCorrelationIdInContext(context.Background(), "abc")
	got, ok := GetCorrelationIdFromContext(ctx)
	if !ok || got != "abc" {
		t.Fatalf("expected abc, got %q (ok=%v)", got, ok)
	}
	if _, ok := GetCorrelationIdFromContext(context.Background()); ok {
		t.Fatal("expected no correlation id on empty context")
	}
}
