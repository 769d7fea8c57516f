package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	fileNameAttribute    = "FileName"
	descriptionAttribute = "Description"
)

// DynamoDBAPI is the subset of *dynamodb.Client the repo needs.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type ImageRecordDynamoRepo struct {
	client DynamoDBAPI
	table  string
}

func NewImageRecordDynamoRepo(client DynamoDBAPI, table string) *ImageRecordDynamoRepo {
	return &ImageRecordDynamoRepo{client: client, table: table}
}

func (r *ImageRecordDynamoRepo) key(fileName string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		fileNameAttribute: &types.AttributeValueMemberS{Value: fileName},
	}
}

// Put replaces the whole item, so a re-created file loses its description.
func (r *ImageRecordDynamoRepo) Put(ctx context.Context, record entity.ImageRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("ImageRecordDynamoRepo - Put - attributevalue.MarshalMap: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("ImageRecordDynamoRepo - Put - r.client.PutItem: %v: %w", err, errs.ErrTableOperation)
	}

	return nil
}

func (r *ImageRecordDynamoRepo) Delete(ctx context.Context, fileName string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(fileName),
	})
	if err != nil {
		return fmt.Errorf("ImageRecordDynamoRepo - Delete - r.client.DeleteItem: %v: %w", err, errs.ErrTableOperation)
	}

	return nil
}

func (r *ImageRecordDynamoRepo) Get(ctx context.Context, fileName string) (*entity.ImageRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(fileName),
	})
	if err != nil {
		return nil, fmt.Errorf("ImageRecordDynamoRepo - Get - r.client.GetItem: %v: %w", err, errs.ErrTableOperation)
	}

	if len(out.Item) == 0 {
		return nil, fmt.Errorf("ImageRecordDynamoRepo - Get - %q: %w", fileName, errs.ErrRecordNotFound)
	}

	var record entity.ImageRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("ImageRecordDynamoRepo - Get - attributevalue.UnmarshalMap: %w", err)
	}

	return &record, nil
}

// UpdateDescription is conditional on the item existing and never creates one.
func (r *ImageRecordDynamoRepo) UpdateDescription(ctx context.Context, fileName, description string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 r.key(fileName),
		UpdateExpression:    aws.String("SET #d = :d"),
		ConditionExpression: aws.String("attribute_exists(#k)"),
		ExpressionAttributeNames: map[string]string{
			"#d": descriptionAttribute,
			"#k": fileNameAttribute,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberS{Value: description},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("ImageRecordDynamoRepo - UpdateDescription - %q: %w", fileName, errs.ErrRecordNotFound)
		}

		return fmt.Errorf("ImageRecordDynamoRepo - UpdateDescription - r.client.UpdateItem: %v: %w", err, errs.ErrTableOperation)
	}

	return nil
}
