package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_DefaultsToDashboard(t *testing.T) {
	s := NewShell()
	assert.Equal(t, ViewDashboard, s.Active())
	assert.Equal(t, Title{
		View:       ViewDashboard,
		NavLabel:   "Dashboard",
		Breadcrumb: "Dashboard Estatístico",
		Heading:    "Visão Geral de Desvios",
	}, s.Title())
}

func TestShell_Navigate(t *testing.T) {
	s := NewShell()
	require.NoError(t, s.Navigate("form"))
	assert.Equal(t, ViewForm, s.Active())
	assert.Equal(t, "Registrar Novo Desvio", s.Title().Breadcrumb)
	assert.Equal(t, "Abertura de Ocorrência", s.Title().Heading)

	err := s.Navigate("settings")
	assert.ErrorIs(t, err, ErrUnknownView)
	assert.Equal(t, ViewForm, s.Active(), "unknown views leave the shell unchanged")

	s.SubmissionSucceeded()
	assert.Equal(t, ViewDashboard, s.Active())
}

func TestParseView(t *testing.T) {
	cases := map[string]bool{"form": true, "dashboard": true, "": false, "Form": false}
	for in, ok := range cases {
		_, err := ParseView(in)
		assert.Equal(t, ok, err == nil, in)
	}
}
