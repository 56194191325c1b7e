// Package recorder implements the handlers that persist the latest observed
// state of a tracked instance. No attempt is made to deal with out of order
// or skipped events: the last write wins.
package recorder

import (
	"context"
	"github.com/davecgh/go-spew/spew"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/glassechidna/statusrecorder/store"
	"go.uber.org/zap"
)

type Recorder struct {
	store      store.Writer
	normalizer *status.Normalizer
	log        *zap.Logger
}

func New(w store.Writer, n *status.Normalizer, log *zap.Logger) *Recorder {
	return &Recorder{store: w, normalizer: n, log: log}
}

// HandleStatus records a generic status event.
func (r *Recorder) HandleStatus(ctx context.Context, e *status.Event) (*status.Record, error) {
	if ce := r.log.Check(zap.DebugLevel, "status event received"); ce != nil {
		ce.Write(zap.String("event", spew.Sdump(e)))
	}

	rec, err := r.normalizer.Status(e)
	if err != nil {
		r.log.Warn("dropping status event", zap.Error(err))
		return nil, err
	}
	return r.put(ctx, rec)
}

// HandleWorkflow records a work-item event from the workflow engine.
func (r *Recorder) HandleWorkflow(ctx context.Context, e *status.WorkflowEvent) (*status.Record, error) {
	if ce := r.log.Check(zap.DebugLevel, "workflow event received"); ce != nil {
		ce.Write(zap.String("event", spew.Sdump(e)))
	}

	rec, err := r.normalizer.Workflow(e)
	if err != nil {
		r.log.Warn("dropping workflow event", zap.Error(err))
		return nil, err
	}
	return r.put(ctx, rec)
}

func (r *Recorder) put(ctx context.Context, rec status.Record) (*status.Record, error) {
	log := r.log.With(zap.String("instanceId", rec.InstanceID), zap.String("txnId", rec.TxnID))

	err := r.store.Put(ctx, rec)
	if err != nil {
		log.Error("status not recorded", zap.Error(err))
		return nil, err
	}

	log.Info("status recorded", zap.String("state", rec.State), zap.Bool("notify", rec.Notify != ""))
	return &rec, nil
}
