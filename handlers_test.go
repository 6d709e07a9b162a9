package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/devitrack/config"
	"github.com/mmdatafocus/devitrack/models"
	"github.com/mmdatafocus/devitrack/models/reports"
	"github.com/mmdatafocus/devitrack/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	return config.NewLogger("error", io.Discard)
}

func offlineRouter(t *testing.T) (*gin.Engine, *store.Repository) {
	t.Helper()
	repo := store.NewRepository(nil, store.NewLocalStore(store.NewMemoryKV()), testLogger())
	cfg := config.AppConfig{Storage: config.OfflineMode()}
	return newRouter(cfg, repo, testLogger()), repo
}

// rejectingStore is a remote-backed store whose writes always fail.
type rejectingStore struct{}

func (rejectingStore) Save(context.Context, *models.Deviation) error {
	return &store.StoreError{Op: "save", Backend: store.BackendSupabase, Status: 401, Message: "Invalid API key"}
}
func (rejectingStore) List(context.Context) ([]*models.Deviation, error) {
	return []*models.Deviation{}, nil
}
func (rejectingStore) Delete(context.Context, string) error {
	return &store.StoreError{Op: "delete", Backend: store.BackendSupabase, Status: 500}
}
func (rejectingStore) Offline() bool   { return false }
func (rejectingStore) Backend() string { return store.BackendSupabase }

const validDraft = `{
	"analystName": "João Silva",
	"escalationLevel": "2ª Escalada",
	"ticketNumber": "INC123456",
	"location": "Agência Centro",
	"closingDate": "2024-01-15",
	"validation": {"calledCustomer": true, "customerDetails": {"name": "Maria", "matricula": "42"}, "saques": true}
}`

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r, _ := offlineRouter(t)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/healthz", "").Code)
}

func TestCreateListDelete(t *testing.T) {
	r, _ := offlineRouter(t)

	w := do(r, http.MethodPost, "/api/deviations", validDraft)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Record models.Deviation `json:"record"`
		View   struct {
			View string `json:"view"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.Record.ID, 36)
	assert.Equal(t, "dashboard", created.View.View)
	assert.True(t, created.Record.Validation.Dispenser, "legacy saques key maps to dispenser")

	w = do(r, http.MethodGet, "/api/deviations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Deviation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "João Silva", list[0].AnalystName)

	w = do(r, http.MethodDelete, "/api/deviations/"+created.Record.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodGet, "/api/deviations", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreate_ValidationErrors(t *testing.T) {
	r, repo := offlineRouter(t)

	w := do(r, http.MethodPost, "/api/deviations", `{"analystName":"Ana","escalationLevel":"1ª Escalada"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"ticketNumber": "required",
		"location":     "required",
		"closingDate":  "required",
	}, body.Fields)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/deviations", `{`).Code)
}

func TestCreate_StoreFailure(t *testing.T) {
	r := newRouter(config.AppConfig{Storage: config.RemoteConfigured("https://x.supabase.co", "k")}, rejectingStore{}, testLogger())

	w := do(r, http.MethodPost, "/api/deviations", validDraft)
	require.Equal(t, http.StatusBadGateway, w.Code)
	var body struct {
		Error string         `json:"error"`
		Draft map[string]any `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, saveFailedMessage, body.Error)
	assert.Equal(t, "INC123456", body.Draft["ticketNumber"])

	assert.Equal(t, http.StatusBadGateway, do(r, http.MethodDelete, "/api/deviations/abc", "").Code)
}

func TestFormSummaryAndDefaults(t *testing.T) {
	r, _ := offlineRouter(t)

	w := do(r, http.MethodPost, "/api/form/summary", `{
		"analystName": "João Silva", "ticketNumber": "INC123456",
		"location": "Agência Centro", "closingDate": "2024-01-15",
		"escalationLevel": "1ª Escalada"
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Summary, "- Chamado: INC123456")
	assert.Contains(t, body.Summary, "- Saques: Pendente")
	assert.Contains(t, body.Summary, "- SmartPower: Pendente")

	w = do(r, http.MethodGet, "/api/form/defaults", "")
	require.Equal(t, http.StatusOK, w.Code)
	var defaults formDefaults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &defaults))
	assert.Equal(t, models.EscalationLevelFirst, defaults.Draft.EscalationLevel)
	assert.Len(t, defaults.EscalationLevels, 5)
	assert.Len(t, defaults.Checks, len(models.CheckCategories))
}

func TestDashboard(t *testing.T) {
	r, _ := offlineRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/deviations", validDraft).Code)

	w := do(r, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		Stats   reports.DashboardStats `json:"stats"`
		Offline bool                   `json:"offline"`
		Notice  string                 `json:"notice"`
		Backend string                 `json:"backend"`
		Leader  *reports.CountEntry    `json:"leader"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Stats.TotalDeviations)
	assert.True(t, payload.Offline)
	assert.NotEmpty(t, payload.Notice)
	assert.Equal(t, store.BackendLocal, payload.Backend)
	require.NotNil(t, payload.Leader)
	assert.Equal(t, "João Silva", payload.Leader.Name)
}

func TestDashboard_Empty(t *testing.T) {
	r, _ := offlineRouter(t)
	w := do(r, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"analystRanking":[]`)
	assert.Contains(t, w.Body.String(), `"leader":null`)
}

func TestViews(t *testing.T) {
	r, _ := offlineRouter(t)

	w := do(r, http.MethodGet, "/api/views/form", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Abertura de Ocorrência")

	w = do(r, http.MethodGet, "/api/views/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Visão Geral de Desvios")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/views/settings", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/nowhere", "").Code)
}

func TestExport(t *testing.T) {
	r, _ := offlineRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/deviations", validDraft).Code)

	w := do(r, http.MethodGet, "/api/export.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reports.ExcelContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(reports.SheetDeviations)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INC123456", rows[1][3])
}

func TestCorsConfig(t *testing.T) {
	dev := corsConfig(config.AppConfig{})
	assert.True(t, dev.AllowAllOrigins)

	prod := corsConfig(config.AppConfig{Production: true, CorsAllowedOrigins: []string{"https://app.test"}})
	assert.False(t, prod.AllowAllOrigins)
	assert.Equal(t, []string{"https://app.test"}, prod.AllowOrigins)
}
