// Package forms builds deviation records from user input.
package forms

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/devitrack/models"
)

const ClosingDateLayout = "2006-01-02"

// Draft is the in-progress record edited by the form.
type Draft struct {
	AnalystName     string                 `json:"analystName" validate:"required"`
	EscalationLevel models.EscalationLevel `json:"escalationLevel" validate:"escalation"`
	TicketNumber    string                 `json:"ticketNumber" validate:"required"`
	Location        string                 `json:"location" validate:"required"`
	ClosingDate     string                 `json:"closingDate" validate:"required,datetime=2006-01-02"`
	Validation      models.CallValidation  `json:"validation"`
}

// DefaultDraft is an empty form at the first escalation level, closing today.
func DefaultDraft(now time.Time) Draft {
	return Draft{
		EscalationLevel: models.EscalationLevelFirst,
		ClosingDate:     now.Format(ClosingDateLayout),
	}
}

func (d *Draft) normalize() {
	d.AnalystName = strings.TrimSpace(d.AnalystName)
	d.TicketNumber = strings.TrimSpace(d.TicketNumber)
	d.Location = strings.TrimSpace(d.Location)
	d.ClosingDate = strings.TrimSpace(d.ClosingDate)
	if !d.Validation.CalledCustomer {
		d.Validation.CustomerDetails = nil
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("escalation", func(fl validator.FieldLevel) bool {
		return models.EscalationLevel(fl.Field().String()).Valid()
	})
	return v
}
