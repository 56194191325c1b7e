package stream

import (
	"context"
	"github.com/aws/aws-lambda-go/events"
	"github.com/glassechidna/statusrecorder/dispatch"
	"github.com/glassechidna/statusrecorder/notify"
	"github.com/glassechidna/statusrecorder/store"
	"go.uber.org/zap"
)

// Processor consumes the status table's change stream and mails the
// recipient named on each written record. Sends are fire-and-forget: a failed
// send is logged and never fails the batch, so the stream is not redelivered.
type Processor struct {
	sender      notify.Sender
	concurrency int
	log         *zap.Logger
}

func NewProcessor(sender notify.Sender, concurrency int, log *zap.Logger) *Processor {
	return &Processor{sender: sender, concurrency: concurrency, log: log}
}

func (p *Processor) Handle(ctx context.Context, input *events.DynamoDBEvent) error {
	d := dispatch.New(p.concurrency)

	for _, record := range input.Records {
		log := p.log.With(zap.String("eventId", record.EventID), zap.String("eventName", record.EventName))

		if record.EventName == string(events.DynamoDBOperationTypeRemove) || len(record.Change.NewImage) == 0 {
			log.Debug("no new image")
			continue
		}

		rec, err := store.RecordFromImage(record.Change.NewImage)
		if err != nil {
			log.Warn("undecodable new image", zap.Error(err))
			continue
		}

		m, ok := notify.Evaluate(rec)
		if !ok {
			log.Debug("nothing to notify", zap.String("instanceId", rec.InstanceID))
			continue
		}

		log.Info("sending notification", zap.String("instanceId", rec.InstanceID), zap.String("to", m.To))
		d.Go(record.EventID, func() error {
			return notify.Send(ctx, p.sender, m)
		})
	}

	report(p.log, "notification", d.Wait())
	return nil
}

func report(log *zap.Logger, what string, outcomes []dispatch.Outcome) {
	for _, o := range outcomes {
		if o.OK() {
			log.Info(what+" dispatched", zap.String("eventId", o.Name), zap.Duration("duration", o.Duration))
		} else {
			log.Error(what+" failed", zap.String("eventId", o.Name), zap.Duration("duration", o.Duration), zap.Error(o.Err))
		}
	}
}
