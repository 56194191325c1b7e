package stream

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/glassechidna/statusrecorder/recorder"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/pkg/errors"
)

type Kind string

const (
	KindStatus   Kind = "status"
	KindWorkflow Kind = "workflow"
)

// Target receives decoded payloads from the Reader.
type Target interface {
	Dispatch(ctx context.Context, kind Kind, payload []byte) error
}

// LocalTarget records payloads in-process.
type LocalTarget struct {
	Recorder *recorder.Recorder
}

func (l *LocalTarget) Dispatch(ctx context.Context, kind Kind, payload []byte) error {
	switch kind {
	case KindWorkflow:
		e := &status.WorkflowEvent{}
		if err := json.Unmarshal(payload, e); err != nil {
			return errors.Wrap(err, "decoding workflow event")
		}
		_, err := l.Recorder.HandleWorkflow(ctx, e)
		return err
	case KindStatus:
		e := &status.Event{}
		if err := json.Unmarshal(payload, e); err != nil {
			return errors.Wrap(err, "decoding status event")
		}
		_, err := l.Recorder.HandleStatus(ctx, e)
		return err
	}
	return errors.Errorf("unknown event kind %q", kind)
}

// InvokeTarget hands payloads to the recorder functions with asynchronous
// invocations. Only the acceptance of the invocation is observed.
type InvokeTarget struct {
	api       lambdaiface.LambdaAPI
	functions map[Kind]string
}

func NewInvokeTarget(api lambdaiface.LambdaAPI, statusFunction, workflowFunction string) *InvokeTarget {
	return &InvokeTarget{
		api: api,
		functions: map[Kind]string{
			KindStatus:   statusFunction,
			KindWorkflow: workflowFunction,
		},
	}
}

func (i *InvokeTarget) Dispatch(ctx context.Context, kind Kind, payload []byte) error {
	name := i.functions[kind]
	if name == "" {
		return errors.Errorf("no recorder function configured for %s events", kind)
	}

	out, err := i.api.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName:   &name,
		InvocationType: aws.String(lambda.InvocationTypeEvent),
		Payload:        payload,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if code := aws.Int64Value(out.StatusCode); code != 202 {
		return errors.Errorf("invoking %s: unexpected status %d", name, code)
	}
	return nil
}
