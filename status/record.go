// Package status holds the canonical status record and the rules that turn the
// inbound event shapes into one.
package status

import (
	"strings"
)

// Record is the latest known state of one tracked instance. It is written as a
// whole on every inbound event; the previous record for the same InstanceID is
// replaced, never merged.
type Record struct {
	InstanceID string `json:"instanceId" dynamodbav:"instanceId"`
	TxnID      string `json:"txnId" dynamodbav:"txnId"`
	State      string `json:"state" dynamodbav:"state"`
	// Timestamp is in epoch milliseconds.
	Timestamp int64  `json:"timestamp" dynamodbav:"timestamp"`
	Notify    string `json:"notify,omitempty" dynamodbav:"notify,omitempty"`
}

// Event is the generic status event emitted on the event bus.
type Event struct {
	TxnID      string `json:"txnId"`
	InstanceID string `json:"instanceId"`
	State      string `json:"state"`
	Notify     string `json:"notify,omitempty"`
}

// WorkflowEvent is emitted by the workflow engine. The engine nests the work
// item under XtracEvent; direct invocations may send the work item bare.
type WorkflowEvent struct {
	XtracEvent *struct {
		WorkItem *WorkItem `json:"WorkItem"`
	} `json:"XtracEvent,omitempty"`
	WorkItem *WorkItem `json:"WorkItem,omitempty"`
}

type WorkItem struct {
	WorkItemNo string `json:"WorkItemNo"`
	Status     string `json:"Status"`
	Memo       string `json:"Memo,omitempty"`
}

// Item returns the work item wherever it was placed, or nil.
func (w *WorkflowEvent) Item() *WorkItem {
	if w == nil {
		return nil
	}
	if w.XtracEvent != nil && w.XtracEvent.WorkItem != nil {
		return w.XtracEvent.WorkItem
	}
	return w.WorkItem
}

// LooksLikeAddress reports whether s splits on '@' into exactly two non-empty
// parts. It is deliberately the only check applied to recipient addresses.
func LooksLikeAddress(s string) bool {
	parts := strings.Split(s, "@")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}
