package store

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/glassechidna/statusrecorder/status"
)

const keyAttribute = "instanceId"

// Dynamo stores one item per instance in a table keyed on instanceId.
type Dynamo struct {
	api   dynamodbiface.DynamoDBAPI
	table string
}

func NewDynamo(api dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	return &Dynamo{api: api, table: table}
}

// Put overwrites the whole item. There is no condition expression: whichever
// write lands last wins.
func (d *Dynamo) Put(ctx context.Context, r status.Record) error {
	item, err := dynamodbattribute.MarshalMap(r)
	if err != nil {
		return storageError(r.InstanceID, err)
	}

	_, err = d.api.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: &d.table,
		Item:      item,
	})
	if err != nil {
		return storageError(r.InstanceID, err)
	}
	return nil
}

func (d *Dynamo) Get(ctx context.Context, instanceID string) (*status.Record, error) {
	out, err := d.api.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      &d.table,
		ConsistentRead: aws.Bool(true),
		Key: map[string]*dynamodb.AttributeValue{
			keyAttribute: {S: &instanceID},
		},
	})
	if err != nil {
		return nil, storageError(instanceID, err)
	}

	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	r := &status.Record{}
	err = dynamodbattribute.UnmarshalMap(out.Item, r)
	if err != nil {
		return nil, storageError(instanceID, err)
	}
	return r, nil
}
