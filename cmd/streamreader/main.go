// Command streamreader is the Lambda attached to the inbound Kinesis stream.
// It decodes each record and hands it to the matching recorder: by async
// invocation when the recorder functions are configured, otherwise in-process
// against the status table.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	awslambda "github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/glassechidna/statusrecorder/config"
	"github.com/glassechidna/statusrecorder/deadletter"
	"github.com/glassechidna/statusrecorder/logging"
	"github.com/glassechidna/statusrecorder/recorder"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/glassechidna/statusrecorder/store"
	"github.com/glassechidna/statusrecorder/stream"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	sess, err := cfg.NewSession()
	if err != nil {
		panic(err)
	}

	target, concurrency, err := newTarget(cfg, sess, log)
	if err != nil {
		panic(err)
	}

	var archive deadletter.Archive = deadletter.Discard{}
	if cfg.DeadLetterBucket != "" {
		archive = deadletter.NewS3Archive(s3.New(sess), cfg.DeadLetterBucket, cfg.DeadLetterPrefix)
	}

	r := stream.NewReader(target, archive, concurrency, log)
	lambda.Start(r.Handle)
}

func newTarget(cfg *config.Config, sess *session.Session, log *zap.Logger) (stream.Target, int, error) {
	if cfg.RecorderFunction != "" || cfg.WorkflowRecorderFunction != "" {
		log.Info("dispatching by invocation",
			zap.String("status", cfg.RecorderFunction),
			zap.String("workflow", cfg.WorkflowRecorderFunction))
		t := stream.NewInvokeTarget(awslambda.New(sess), cfg.RecorderFunction, cfg.WorkflowRecorderFunction)
		return t, cfg.DispatchConcurrency, nil
	}

	err := cfg.Require(config.TableName)
	if err != nil {
		return nil, 0, err
	}

	// in-process writes stay in stream order
	r := recorder.New(store.NewDynamo(dynamodb.New(sess), cfg.TableName), status.NewNormalizer(), log)
	return &stream.LocalTarget{Recorder: r}, 1, nil
}
