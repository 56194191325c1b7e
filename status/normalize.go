package status

import (
	"github.com/google/uuid"
	"time"
)

// Normalizer maps inbound events onto Record. Now and NewTxnID are swappable so
// tests can pin the clock and the generated ids.
type Normalizer struct {
	Now      func() time.Time
	NewTxnID func() string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now, NewTxnID: uuid.NewString}
}

// Status normalizes a generic status event. A missing txnId is generated.
func (n *Normalizer) Status(e *Event) (Record, error) {
	if e == nil {
		return Record{}, malformed("status", "event")
	}
	if e.InstanceID == "" {
		return Record{}, malformed("status", "instanceId")
	}
	if e.State == "" {
		return Record{}, malformed("status", "state")
	}

	txnID := e.TxnID
	if txnID == "" {
		txnID = n.NewTxnID()
	}

	return Record{
		InstanceID: e.InstanceID,
		TxnID:      txnID,
		State:      e.State,
		Timestamp:  n.Now().UnixMilli(),
		Notify:     e.Notify,
	}, nil
}

// Workflow normalizes a work-item event. The workflow engine supplies no
// correlation id so one is always generated, and the memo doubles as the
// notification address when it looks like one.
func (n *Normalizer) Workflow(e *WorkflowEvent) (Record, error) {
	item := e.Item()
	if item == nil {
		return Record{}, malformed("workflow", "WorkItem")
	}
	if item.WorkItemNo == "" {
		return Record{}, malformed("workflow", "WorkItemNo")
	}
	if item.Status == "" {
		return Record{}, malformed("workflow", "Status")
	}

	r := Record{
		InstanceID: item.WorkItemNo,
		TxnID:      n.NewTxnID(),
		State:      item.Status,
		Timestamp:  n.Now().UnixMilli(),
	}
	if LooksLikeAddress(item.Memo) {
		r.Notify = item.Memo
	}
	return r, nil
}
