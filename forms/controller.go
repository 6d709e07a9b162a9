package forms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mmdatafocus/devitrack/models"
	"github.com/mmdatafocus/devitrack/utils"
)

type Saver interface {
	Save(ctx context.Context, d *models.Deviation) error
}

// ValidationError lists the fields that block a submission, keyed by their
// JSON name, with the failing rule as value.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// Controller holds one draft and submits it through a Saver.
// It is not safe for concurrent use.
type Controller struct {
	saver    Saver
	draft    Draft
	now      func() time.Time
	newID    func() string
	validate *validator.Validate
}

func NewController(saver Saver, opts ...Option) *Controller {
	c := &Controller{
		saver:    saver,
		now:      time.Now,
		newID:    uuid.NewString,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.draft = DefaultDraft(c.now())
	return c
}

func (c *Controller) Draft() Draft { return c.draft }

// Load replaces the draft, trimming text fields.
func (c *Controller) Load(d Draft) {
	d.normalize()
	c.draft = d
}

func (c *Controller) Reset() {
	c.draft = DefaultDraft(c.now())
}

func (c *Controller) SetAnalystName(name string) { c.draft.AnalystName = name }

func (c *Controller) SetTicketNumber(ticket string) { c.draft.TicketNumber = ticket }

func (c *Controller) SetLocation(location string) { c.draft.Location = location }

func (c *Controller) SetClosingDate(date string) { c.draft.ClosingDate = date }

func (c *Controller) SetEscalationLevel(level string) error {
	l, err := models.ParseEscalationLevel(level)
	if err != nil {
		return fmt.Errorf("%w: %s", utils.ErrorInvalidInput, err.Error())
	}
	c.draft.EscalationLevel = l
	return nil
}

// SetCalledCustomer toggles the customer call. Turning it off drops any
// customer details; turning it on starts from empty details.
func (c *Controller) SetCalledCustomer(called bool) {
	v := &c.draft.Validation
	if !called {
		v.CustomerDetails = nil
	} else if !v.CalledCustomer || v.CustomerDetails == nil {
		v.CustomerDetails = &models.CustomerDetails{}
	}
	v.CalledCustomer = called
}

// SetCustomerDetails is ignored unless the customer was called.
func (c *Controller) SetCustomerDetails(name, matricula string) {
	v := &c.draft.Validation
	if !v.CalledCustomer {
		return
	}
	v.CustomerDetails = &models.CustomerDetails{Name: name, Matricula: matricula}
}

func (c *Controller) SetEvaluatedEquipment(evaluated bool) {
	c.draft.Validation.EvaluatedEquipment = evaluated
}

func (c *Controller) SetCheck(category string, checked bool) error {
	cat, err := models.ParseCheckCategory(category)
	if err != nil {
		return fmt.Errorf("%w: %s", utils.ErrorInvalidInput, err.Error())
	}
	c.draft.Validation.SetChecked(cat, checked)
	return nil
}

func (c *Controller) SetClosureAuth(name, department string) {
	c.draft.Validation.ClosureAuth = models.ClosureAuth{Name: name, Department: department}
}

// Validate returns a *ValidationError when a required field is missing
// or malformed.
func (c *Controller) Validate() error {
	d := c.draft
	d.normalize()
	if err := c.validate.Struct(d); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return &ValidationError{Fields: utils.ProcessValidationErrors(err)}
		}
		return err
	}
	return nil
}

func (c *Controller) Summary() (string, error) {
	return Summary(c.draft)
}

// Submit validates the draft and saves it as a new record. On success the
// draft is reset; on any error it is left as it was. CreatedAt is kept to
// millisecond precision, the finest both remote stores round-trip.
func (c *Controller) Submit(ctx context.Context) (*models.Deviation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	d := c.draft
	d.normalize()

	record := &models.Deviation{
		ID:              c.newID(),
		AnalystName:     d.AnalystName,
		EscalationLevel: d.EscalationLevel,
		TicketNumber:    d.TicketNumber,
		Location:        d.Location,
		ClosingDate:     d.ClosingDate,
		Validation:      d.Validation,
		CreatedAt:       c.now().UTC().Truncate(time.Millisecond),
	}
	if d.Validation.CustomerDetails != nil {
		details := *d.Validation.CustomerDetails
		record.Validation.CustomerDetails = &details
	}
	if err := c.saver.Save(ctx, record); err != nil {
		return nil, err
	}
	c.Reset()
	return record, nil
}
