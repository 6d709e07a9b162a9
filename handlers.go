package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/devitrack/config"
	"github.com/mmdatafocus/devitrack/forms"
	"github.com/mmdatafocus/devitrack/models"
	"github.com/mmdatafocus/devitrack/models/reports"
	"github.com/mmdatafocus/devitrack/store"
	"github.com/mmdatafocus/devitrack/views"
	"github.com/sirupsen/logrus"
)

const (
	saveFailedMessage   = "Erro ao salvar no banco de dados. Verifique sua conexão."
	deleteFailedMessage = "Erro ao excluir o registro. Verifique sua conexão."
	offlineNotice       = "O Supabase não foi configurado (chaves SUPABASE_URL e SUPABASE_ANON_KEY ausentes). Seus registros estão sendo salvos localmente."
)

type deviationStore interface {
	forms.Saver
	List(ctx context.Context) ([]*models.Deviation, error)
	Delete(ctx context.Context, id string) error
	Offline() bool
	Backend() string
}

type api struct {
	store       deviationStore
	logger      *logrus.Logger
	storageMode string
	formOptions []forms.Option
}

type dashboardPayload struct {
	Stats        *reports.DashboardStats `json:"stats"`
	ChartTop     []*reports.CountEntry   `json:"chartTop"`
	TableTop     []*reports.CountEntry   `json:"tableTop"`
	TopLocations []*reports.CountEntry   `json:"topLocations"`
	Leader       *reports.CountEntry     `json:"leader"`
	Offline      bool                    `json:"offline"`
	Notice       string                  `json:"notice,omitempty"`
	Storage      string                  `json:"storage"`
	Backend      string                  `json:"backend"`
}

type formDefaults struct {
	Draft            forms.Draft              `json:"draft"`
	EscalationLevels []models.EscalationLevel `json:"escalationLevels"`
	Checks           []checkOption            `json:"checks"`
}

type checkOption struct {
	Category models.CheckCategory `json:"category"`
	Label    string               `json:"label"`
}

func (a *api) newController() *forms.Controller {
	return forms.NewController(a.store, a.formOptions...)
}

func (a *api) listDeviations(c *gin.Context) {
	list, err := a.store.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deviations"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (a *api) createDeviation(c *gin.Context) {
	var draft forms.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctrl := a.newController()
	ctrl.Load(draft)
	record, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		var validationErr *forms.ValidationError
		var storeErr *store.StoreError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "validation failed",
				"fields": validationErr.Fields,
				"draft":  ctrl.Draft(),
			})
		case errors.As(err, &storeErr):
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": saveFailedMessage, "draft": ctrl.Draft()})
		default:
			config.LogError(a.logger, "handlers.go", "createDeviation", "Submit", draft, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": saveFailedMessage, "draft": ctrl.Draft()})
		}
		return
	}

	shell := views.NewShell()
	shell.SubmissionSucceeded()
	c.JSON(http.StatusCreated, gin.H{
		"record": record,
		"view":   shell.Title(),
	})
}

func (a *api) deleteDeviation(c *gin.Context) {
	err := a.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		var storeErr *store.StoreError
		if errors.As(err, &storeErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": deleteFailedMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": deleteFailedMessage})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) formSummary(c *gin.Context) {
	var draft forms.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ctrl := a.newController()
	ctrl.Load(draft)
	text, err := ctrl.Summary()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": text})
}

func (a *api) formDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, a.defaults())
}

func (a *api) defaults() formDefaults {
	out := formDefaults{
		Draft:            a.newController().Draft(),
		EscalationLevels: models.EscalationLevels,
	}
	for _, cat := range models.CheckCategories {
		out.Checks = append(out.Checks, checkOption{Category: cat, Label: cat.Label()})
	}
	return out
}

func (a *api) dashboard(c *gin.Context) {
	payload, err := a.dashboardPayload(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (a *api) dashboardPayload(ctx context.Context) (*dashboardPayload, error) {
	list, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := reports.BuildDashboardStats(list)
	payload := &dashboardPayload{
		Stats:        stats,
		ChartTop:     stats.TopAnalysts(reports.DashboardChartAnalysts),
		TableTop:     stats.TopAnalysts(reports.DashboardTableAnalysts),
		TopLocations: stats.TopLocations(reports.DashboardTopLocations),
		Leader:       stats.Leader(),
		Offline:      a.store.Offline(),
		Storage:      a.storageMode,
		Backend:      a.store.Backend(),
	}
	if payload.Offline {
		payload.Notice = offlineNotice
	}
	return payload, nil
}

func (a *api) view(c *gin.Context) {
	shell := views.NewShell()
	if err := shell.Navigate(c.Param("view")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var data any
	switch shell.Active() {
	case views.ViewForm:
		data = a.defaults()
	case views.ViewDashboard:
		payload, err := a.dashboardPayload(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
			return
		}
		data = payload
	}
	c.JSON(http.StatusOK, gin.H{"title": shell.Title(), "data": data})
}

func (a *api) exportExcel(c *gin.Context) {
	list, err := a.store.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deviations"})
		return
	}
	f, err := reports.ExportExcel(list, nil)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}
	defer f.Close()

	c.Header("Content-Type", reports.ExcelContentType)
	c.Header("Content-Disposition", "attachment; filename=desvios.xlsx")
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
