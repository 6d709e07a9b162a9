// Package views selects between the data-entry form and the dashboard.
package views

import (
	"errors"
	"fmt"
)

type View string

const (
	ViewForm      View = "form"
	ViewDashboard View = "dashboard"
)

var ErrUnknownView = errors.New("unknown view")

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewForm, ViewDashboard:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// NavLabel is the short label of the navigation button.
func (v View) NavLabel() string {
	if v == ViewForm {
		return "Novo Registro"
	}
	return "Dashboard"
}

func (v View) Breadcrumb() string {
	if v == ViewForm {
		return "Registrar Novo Desvio"
	}
	return "Dashboard Estatístico"
}

func (v View) Heading() string {
	if v == ViewForm {
		return "Abertura de Ocorrência"
	}
	return "Visão Geral de Desvios"
}

// Shell tracks the active view. The zero value is not usable; call NewShell.
type Shell struct {
	active View
}

func NewShell() *Shell {
	return &Shell{active: ViewDashboard}
}

func (s *Shell) Active() View { return s.active }

func (s *Shell) Navigate(name string) error {
	v, err := ParseView(name)
	if err != nil {
		return err
	}
	s.active = v
	return nil
}

// SubmissionSucceeded returns to the dashboard after a record is saved.
func (s *Shell) SubmissionSucceeded() {
	s.active = ViewDashboard
}

// Title is the header block rendered above the active view.
type Title struct {
	View       View   `json:"view"`
	NavLabel   string `json:"navLabel"`
	Breadcrumb string `json:"breadcrumb"`
	Heading    string `json:"heading"`
}

func (s *Shell) Title() Title {
	return Title{
		View:       s.active,
		NavLabel:   s.active.NavLabel(),
		Breadcrumb: s.active.Breadcrumb(),
		Heading:    s.active.Heading(),
	}
}
