package store

import (
	"encoding/json"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/pkg/errors"
)

// RecordFromImage decodes a stream image into a record. The events package
// and the SDK model attribute values differently, but both share the same
// JSON wire form, so the image is round-tripped through it.
func RecordFromImage(image map[string]events.DynamoDBAttributeValue) (status.Record, error) {
	r := status.Record{}

	body, err := json.Marshal(image)
	if err != nil {
		return r, errors.WithStack(err)
	}

	item := map[string]*dynamodb.AttributeValue{}
	err = json.Unmarshal(body, &item)
	if err != nil {
		return r, errors.WithStack(err)
	}

	err = dynamodbattribute.UnmarshalMap(item, &r)
	return r, errors.WithStack(err)
}
