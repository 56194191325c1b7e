// Command notifier is the Lambda subscribed to the status table's stream. It
// mails the address recorded in notify whenever a record is written.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/glassechidna/statusrecorder/config"
	"github.com/glassechidna/statusrecorder/logging"
	"github.com/glassechidna/statusrecorder/notify"
	"github.com/glassechidna/statusrecorder/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	err = cfg.Require(config.SenderAddress)
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

	p := stream.NewProcessor(notify.NewSES(ses.New(sess), cfg.SenderAddress), cfg.DispatchConcurrency, log)
	lambda.Start(p.Handle)
}
