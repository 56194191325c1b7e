package stream

import (
	"context"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/glassechidna/statusrecorder/notify"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/pkg/errors"
	"strconv"
	"sync"
	"testing"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []notify.Message
	fail map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, m notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail[m.To] {
		return errors.New("message rejected")
	}
	f.sent = append(f.sent, m)
	return nil
}

type dispatched struct {
	kind    Kind
	payload string
}

type fakeTarget struct {
	mu    sync.Mutex
	calls []dispatched
	err   error
}

func (f *fakeTarget) Dispatch(ctx context.Context, kind Kind, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, dispatched{kind: kind, payload: string(payload)})
	return f.err
}

type archived struct {
	reason  string
	payload string
}

type fakeArchive struct {
	puts []archived
}

func (f *fakeArchive) Put(ctx context.Context, reason string, payload []byte) (string, error) {
	f.puts = append(f.puts, archived{reason: reason, payload: string(payload)})
	return "rejected/1.json", nil
}

type fakeLambda struct {
	lambdaiface.LambdaAPI
	inputs []*lambda.InvokeInput
	status int64
	err    error
}

func (f *fakeLambda) InvokeWithContext(ctx aws.Context, input *lambda.InvokeInput, opts ...request.Option) (*lambda.InvokeOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &lambda.InvokeOutput{StatusCode: aws.Int64(f.status)}, nil
}

func kinesisEvent(payloads ...string) *events.KinesisEvent {
	e := &events.KinesisEvent{}
	for i, p := range payloads {
		e.Records = append(e.Records, events.KinesisEventRecord{
			EventID:     "shardId-000000000000:" + string(rune('a'+i)),
			EventSource: "aws:kinesis",
			Kinesis: events.KinesisRecord{
				PartitionKey: "pk",
				Data:         []byte(p),
			},
		})
	}
	return e
}

// imageOf renders a record the way the change stream delivers it.
func imageOf(r status.Record) map[string]events.DynamoDBAttributeValue {
	image := map[string]events.DynamoDBAttributeValue{
		"instanceId": events.NewStringAttribute(r.InstanceID),
		"txnId":      events.NewStringAttribute(r.TxnID),
		"state":      events.NewStringAttribute(r.State),
		"timestamp":  events.NewNumberAttribute(strconv.FormatInt(r.Timestamp, 10)),
	}
	if r.Notify != "" {
		image["notify"] = events.NewStringAttribute(r.Notify)
	}
	return image
}

func changeEvent(t *testing.T, eventName string, records ...status.Record) *events.DynamoDBEvent {
	e := &events.DynamoDBEvent{}
	for i, r := range records {
		rec := events.DynamoDBEventRecord{
			EventID:   string(rune('a' + i)),
			EventName: eventName,
		}
		if eventName != "REMOVE" {
			rec.Change.NewImage = imageOf(r)
		}
		e.Records = append(e.Records, rec)
	}
	return e
}
