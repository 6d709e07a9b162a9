package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/mmdatafocus/devitrack/models"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleDeviation(id string, createdAt time.Time) *models.Deviation {
	return &models.Deviation{
		ID:              id,
		AnalystName:     "João Silva",
		EscalationLevel: models.EscalationLevelFirst,
		TicketNumber:    "INC123456",
		Location:        "Agência Centro",
		ClosingDate:     "2024-01-15",
		Validation: models.CallValidation{
			CalledCustomer:  true,
			CustomerDetails: &models.CustomerDetails{Name: "Maria", Matricula: "42"},
			Dispenser:       true,
			ClosureAuth:     models.ClosureAuth{Name: "Carlos", Department: "NOC"},
		},
		CreatedAt: createdAt.UTC(),
	}
}

// fakeRemote is an in-memory RemoteStore whose calls can be made to fail.
type fakeRemote struct {
	mu        sync.Mutex
	records   []*models.Deviation
	failSave  bool
	failList  bool
	failDel   bool
	saveCalls int
}

var errRemoteDown = errors.New("remote down")

func (f *fakeRemote) Backend() string { return "fake" }

func (f *fakeRemote) Save(_ context.Context, d *models.Deviation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.failSave {
		return &StoreError{Op: "save", Backend: "fake", Status: 400, Message: "rejected", Err: errRemoteDown}
	}
	f.records = append(f.records, d)
	return nil
}

func (f *fakeRemote) List(_ context.Context) ([]*models.Deviation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, &StoreError{Op: "list", Backend: "fake", Err: errRemoteDown}
	}
	out := append([]*models.Deviation(nil), f.records...)
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel {
		return &StoreError{Op: "delete", Backend: "fake", Err: errRemoteDown}
	}
	kept := f.records[:0]
	for _, d := range f.records {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.records = kept
	return nil
}
