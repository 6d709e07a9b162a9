package store

import (
	"context"
	"errors"

	"github.com/mmdatafocus/devitrack/models"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("devitrack/store")

// Repository is the persistence adapter used by the rest of the service.
//
// With a remote store, writes and deletes go to the remote only and its
// errors are returned; a failed remote read is logged and answered from the
// local fallback list instead. Without a remote store everything is local.
type Repository struct {
	remote RemoteStore
	local  *LocalStore
	logger *logrus.Logger
}

func NewRepository(remote RemoteStore, local *LocalStore, logger *logrus.Logger) *Repository {
	return &Repository{
		remote: remote,
		local:  local,
		logger: logger,
	}
}

// Offline reports whether records are kept in the local fallback store.
func (r *Repository) Offline() bool { return r.remote == nil }

// Backend names the store that serves reads and writes.
func (r *Repository) Backend() string {
	if r.remote == nil {
		return r.local.Backend()
	}
	return r.remote.Backend()
}

func (r *Repository) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("devitrack.backend", r.Backend())),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *Repository) Save(ctx context.Context, d *models.Deviation) (err error) {
	ctx, span := r.startSpan(ctx, "store.Save")
	defer func() { endSpan(span, err) }()

	if d == nil {
		return errors.New("nil deviation")
	}

	if r.remote == nil {
		r.logger.WithFields(logrus.Fields{
			"field": "store",
			"id":    d.ID,
		}).Debug("remote store not configured; saving to local fallback")
		return r.local.Save(ctx, d)
	}
	if err = r.remote.Save(ctx, d); err != nil {
		r.logger.WithFields(logrus.Fields{
			"field":   "store",
			"backend": r.remote.Backend(),
			"id":      d.ID,
		}).Error("error saving deviation: " + err.Error())
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context) (list []*models.Deviation, err error) {
	ctx, span := r.startSpan(ctx, "store.List")
	defer func() { endSpan(span, err) }()

	if r.remote == nil {
		return r.local.List(ctx)
	}
	list, rerr := r.remote.List(ctx)
	if rerr == nil {
		return list, nil
	}

	span.AddEvent("read degraded", trace.WithAttributes(attribute.String("error", rerr.Error())))
	r.logger.WithFields(logrus.Fields{
		"field":   "store",
		"backend": r.remote.Backend(),
	}).Warn("read degraded; serving local fallback list: " + rerr.Error())
	return r.local.List(ctx)
}

func (r *Repository) Delete(ctx context.Context, id string) (err error) {
	ctx, span := r.startSpan(ctx, "store.Delete")
	defer func() { endSpan(span, err) }()

	if r.remote == nil {
		return r.local.Delete(ctx, id)
	}
	if err = r.remote.Delete(ctx, id); err != nil {
		r.logger.WithFields(logrus.Fields{
			"field":   "store",
			"backend": r.remote.Backend(),
			"id":      id,
		}).Error("error deleting deviation: " + err.Error())
		return err
	}
	return nil
}
