package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmdatafocus/devitrack/models"
)

const deviationsTable = "deviations"

// RestStore talks to the Supabase REST (PostgREST) endpoint of the deviations table.
// There is no retry: a rejected call is reported to the caller as is.
type RestStore struct {
	httpClient *resty.Client
	table      string
}

type postgrestError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func NewRestStore(baseURL, apiKey string, timeout time.Duration) *RestStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetTimeout(timeout).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RestStore{
		httpClient: client,
		table:      deviationsTable,
	}
}

func (s *RestStore) Backend() string { return BackendSupabase }

func (s *RestStore) Save(ctx context.Context, d *models.Deviation) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody([]*models.Deviation{d}).
		Post("/" + s.table)
	if err != nil {
		return &StoreError{Op: "save", Backend: BackendSupabase, Err: err}
	}
	if resp.IsError() {
		return s.responseError("save", resp)
	}
	return nil
}

func (s *RestStore) List(ctx context.Context) ([]*models.Deviation, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"order":  "createdAt.desc",
		}).
		Get("/" + s.table)
	if err != nil {
		return nil, &StoreError{Op: "list", Backend: BackendSupabase, Err: err}
	}
	if resp.IsError() {
		return nil, s.responseError("list", resp)
	}

	var out []*models.Deviation
	if body := resp.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, &StoreError{Op: "list", Backend: BackendSupabase, Status: resp.StatusCode(), Message: "decode response", Err: err}
		}
	}
	if out == nil {
		out = []*models.Deviation{}
	}
	return out, nil
}

func (s *RestStore) Delete(ctx context.Context, id string) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		Delete("/" + s.table)
	if err != nil {
		return &StoreError{Op: "delete", Backend: BackendSupabase, Err: err}
	}
	if resp.IsError() {
		return s.responseError("delete", resp)
	}
	return nil
}

func (s *RestStore) responseError(op string, resp *resty.Response) *StoreError {
	msg := strings.TrimSpace(resp.String())
	var pgErr postgrestError
	if err := json.Unmarshal(resp.Body(), &pgErr); err == nil && pgErr.Message != "" {
		msg = pgErr.Message
		if pgErr.Code != "" {
			msg = pgErr.Code + ": " + msg
		}
	}
	return &StoreError{
		Op:      op,
		Backend: BackendSupabase,
		Status:  resp.StatusCode(),
		Message: msg,
	}
}
