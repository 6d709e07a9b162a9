// Package store persists deviation records. A Repository routes calls to a
// remote record store when one is configured and to the local fallback list
// otherwise.
package store

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/devitrack/models"
)

const (
	BackendSupabase = "supabase"
	BackendMySQL    = "mysql"
	BackendLocal    = "local"
)

type Store interface {
	Save(ctx context.Context, d *models.Deviation) error
	List(ctx context.Context) ([]*models.Deviation, error)
	Delete(ctx context.Context, id string) error
}

// RemoteStore is a Store reached over the network.
type RemoteStore interface {
	Store
	Backend() string
}

// StoreError is returned when a remote backend rejects a call. Status is the
// HTTP status for the REST store and the server error number for MySQL.
type StoreError struct {
	Op      string
	Backend string
	Status  int
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Backend, e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Backend, e.Op, msg)
}

func (e *StoreError) Unwrap() error { return e.Err }
