// Package stream holds the handlers fed by streams: the inbound event stream
// reader and the status table's change stream processor.
package stream

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-lambda-go/events"
	"github.com/glassechidna/statusrecorder/deadletter"
	"github.com/glassechidna/statusrecorder/dispatch"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Reader decodes a Kinesis batch and dispatches every payload to a Target.
// The events package has already undone the base64 encoding of the data.
type Reader struct {
	target      Target
	archive     deadletter.Archive
	concurrency int
	log         *zap.Logger
}

// NewReader builds a Reader. A concurrency of 1 keeps payloads of a batch in
// stream order, which matters when the target writes in-process.
func NewReader(target Target, archive deadletter.Archive, concurrency int, log *zap.Logger) *Reader {
	return &Reader{target: target, archive: archive, concurrency: concurrency, log: log}
}

// Classify decides which recorder a payload belongs to.
func Classify(data []byte) (Kind, error) {
	probe := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", errors.Wrap(err, "decoding payload")
	}

	if _, ok := probe["XtracEvent"]; ok {
		return KindWorkflow, nil
	}
	if _, ok := probe["WorkItem"]; ok {
		return KindWorkflow, nil
	}
	return KindStatus, nil
}

func (r *Reader) Handle(ctx context.Context, input *events.KinesisEvent) error {
	d := dispatch.New(r.concurrency)
	payloads := map[string][]byte{}

	for _, record := range input.Records {
		data := record.Kinesis.Data
		log := r.log.With(zap.String("eventId", record.EventID), zap.String("partitionKey", record.Kinesis.PartitionKey))
		log.Debug("decoded record data", zap.ByteString("data", data))

		kind, err := Classify(data)
		if err != nil {
			log.Warn("rejecting record", zap.Error(err))
			r.reject(ctx, record.EventID, err, data)
			continue
		}

		payloads[record.EventID] = data
		d.Go(record.EventID, func() error {
			return r.target.Dispatch(ctx, kind, data)
		})
	}

	outcomes := d.Wait()
	report(r.log, "record", outcomes)
	for _, o := range dispatch.Failed(outcomes) {
		r.reject(ctx, o.Name, o.Err, payloads[o.Name])
	}
	return nil
}

func (r *Reader) reject(ctx context.Context, eventID string, cause error, data []byte) {
	key, err := r.archive.Put(ctx, cause.Error(), data)
	if err != nil {
		r.log.Error("archiving rejected record", zap.String("eventId", eventID), zap.Error(err))
		return
	}
	if key != "" {
		r.log.Info("rejected record archived", zap.String("eventId", eventID), zap.String("key", key))
	}
}
