// Command workflowrecorder is the Lambda that persists work-item events from
// the workflow engine.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/glassechidna/statusrecorder/config"
	"github.com/glassechidna/statusrecorder/logging"
	"github.com/glassechidna/statusrecorder/recorder"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/glassechidna/statusrecorder/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	err = cfg.Require(config.TableName)
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

	r := recorder.New(store.NewDynamo(dynamodb.New(sess), cfg.TableName), status.NewNormalizer(), log)
	lambda.Start(r.HandleWorkflow)
}
