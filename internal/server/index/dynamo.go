package index

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/postapp/internal/awsx"
	"github.com/dmitrijs2005/postapp/internal/server/models"
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoRepository.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var newDynamoClientFromConfig = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, optFns...)
}

// DynamoRepository keeps records in a table keyed on S3ObjectKey with a
// global secondary index on Category.
type DynamoRepository struct {
	api   DynamoAPI
	table string
	index string
}

func NewDynamoRepository(api DynamoAPI, table, index string) *DynamoRepository {
	return &DynamoRepository{api: api, table: table, index: index}
}

// NewDynamoRepositoryFromConfig builds the client from opts. endpoint may
// point at DynamoDB Local.
func NewDynamoRepositoryFromConfig(ctx context.Context, opts awsx.Options, endpoint, table, index string) (*DynamoRepository, error) {
	cfg, err := awsx.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	client := newDynamoClientFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = awsx.Endpoint(endpoint)
	})
	return NewDynamoRepository(client, table, index), nil
}

func (r *DynamoRepository) Put(ctx context.Context, img models.Image) error {
	item, err := attributevalue.MarshalMap(img)
	if err != nil {
		return fmt.Errorf("marshal image: %w", err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:              aws.String(r.table),
		Item:                   item,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put: %w", err)
	}
	return nil
}

func (r *DynamoRepository) Delete(ctx context.Context, key string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"S3ObjectKey": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb delete: %w", err)
	}
	return nil
}

// KeysByCategory queries the category index page by page, projecting only
// S3ObjectKey.
func (r *DynamoRepository) KeysByCategory(ctx context.Context, category string) ([]models.ImageKey, error) {
	p := dynamodb.NewQueryPaginator(r.api, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(r.index),
		KeyConditionExpression: aws.String("Category = :category"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":category": &types.AttributeValueMemberS{Value: category},
		},
		ProjectionExpression: aws.String("S3ObjectKey"),
	})

	keys := []models.ImageKey{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb query: %w", err)
		}

		var batch []models.ImageKey
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal keys: %w", err)
		}
		keys = append(keys, batch...)
	}
	return keys, nil
}
