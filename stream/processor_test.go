package stream

import (
	"context"
	"github.com/aws/aws-lambda-go/events"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"sort"
	"testing"
)

func TestProcessorSendsToRecipient(t *testing.T) {
	sender := &fakeSender{}
	p := NewProcessor(sender, 4, zap.NewNop())

	r := status.Record{InstanceID: "42", TxnID: "t1", State: "DONE", Timestamp: 7, Notify: "a@b.com"}
	err := p.Handle(context.Background(), changeEvent(t, "INSERT", r))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@b.com", sender.sent[0].To)
	assert.Equal(t, "Status Update", sender.sent[0].Subject)
	assert.JSONEq(t, `{"instanceId":"42","txnId":"t1","state":"DONE","timestamp":7,"notify":"a@b.com"}`, sender.sent[0].Body)
}

func TestProcessorSkipsRecordsWithoutRecipient(t *testing.T) {
	sender := &fakeSender{}
	p := NewProcessor(sender, 4, zap.NewNop())

	err := p.Handle(context.Background(), changeEvent(t, "MODIFY",
		status.Record{InstanceID: "m1", TxnID: "t1", State: "RUNNING", Timestamp: 1},
		status.Record{InstanceID: "m2", TxnID: "t2", State: "RUNNING", Timestamp: 1, Notify: "a@b@c"},
	))
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestProcessorSkipsRemoves(t *testing.T) {
	sender := &fakeSender{}
	p := NewProcessor(sender, 4, zap.NewNop())

	err := p.Handle(context.Background(), changeEvent(t, "REMOVE", status.Record{InstanceID: "m1", Notify: "a@b.com"}))
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestProcessorSendFailureDoesNotFailBatch(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := &fakeSender{fail: map[string]bool{"bad@b.com": true}}
	p := NewProcessor(sender, 4, zap.New(core))

	err := p.Handle(context.Background(), changeEvent(t, "INSERT",
		status.Record{InstanceID: "m1", TxnID: "t1", State: "DONE", Notify: "bad@b.com"},
		status.Record{InstanceID: "m2", TxnID: "t2", State: "DONE", Notify: "good@b.com"},
		status.Record{InstanceID: "m3", TxnID: "t3", State: "DONE", Notify: "also@b.com"},
	))
	require.NoError(t, err)

	var sentTo []string
	for _, m := range sender.sent {
		sentTo = append(sentTo, m.To)
	}
	sort.Strings(sentTo)
	assert.Equal(t, []string{"also@b.com", "good@b.com"}, sentTo)

	failed := logs.FilterMessage("notification failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "a", failed[0].ContextMap()["eventId"])
	assert.Len(t, logs.FilterMessage("notification dispatched").All(), 2)
}

func TestProcessorSkipsUndecodableImage(t *testing.T) {
	sender := &fakeSender{}
	p := NewProcessor(sender, 1, zap.NewNop())

	e := changeEvent(t, "INSERT", status.Record{InstanceID: "m2", TxnID: "t2", State: "DONE", Notify: "x@y.com"})
	e.Records = append([]events.DynamoDBEventRecord{{
		EventID:   "broken",
		EventName: "INSERT",
		Change: events.DynamoDBStreamRecord{NewImage: map[string]events.DynamoDBAttributeValue{
			"instanceId": events.NewStringAttribute("m1"),
			"timestamp":  events.NewStringAttribute("soon"),
			"notify":     events.NewStringAttribute("a@b.com"),
		}},
	}}, e.Records...)

	require.NoError(t, p.Handle(context.Background(), e))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "x@y.com", sender.sent[0].To)
}
