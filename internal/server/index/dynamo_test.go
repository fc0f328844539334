package index

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/postapp/internal/awsx"
	"github.com/dmitrijs2005/postapp/internal/server/models"
)

type fakeDynamo struct {
	put     *dynamodb.PutItemInput
	deleted *dynamodb.DeleteItemInput
	queries []*dynamodb.QueryInput

	pages    [][]string
	queryErr error
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.put = in
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleted = in
	return &dynamodb.DeleteItemOutput{}, nil
}

// Query serves f.pages in order; the page number travels in the start key.
func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	n := len(f.queries) - 1
	out := &dynamodb.QueryOutput{}
	for _, k := range f.pages[n] {
		out.Items = append(out.Items, map[string]types.AttributeValue{
			"S3ObjectKey": &types.AttributeValueMemberS{Value: k},
		})
	}
	if n+1 < len(f.pages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"S3ObjectKey": &types.AttributeValueMemberS{Value: f.pages[n][len(f.pages[n])-1]},
		}
	}
	return out, nil
}

func TestDynamoRepository_Put(t *testing.T) {
	api := &fakeDynamo{}
	repo := NewDynamoRepository(api, "Images", "Category-index")

	err := repo.Put(context.Background(), models.Image{S3ObjectKey: "a.png", Category: "cats", ImageLocation: "loc"})
	require.NoError(t, err)

	assert.Equal(t, "Images", aws.ToString(api.put.TableName))
	assert.Equal(t, types.ReturnConsumedCapacityTotal, api.put.ReturnConsumedCapacity)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "a.png"}, api.put.Item["S3ObjectKey"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "cats"}, api.put.Item["Category"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "loc"}, api.put.Item["ImageLocation"])
}

func TestDynamoRepository_Delete(t *testing.T) {
	api := &fakeDynamo{}
	repo := NewDynamoRepository(api, "Images", "Category-index")

	require.NoError(t, repo.Delete(context.Background(), "a.png"))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "a.png"}, api.deleted.Key["S3ObjectKey"])
}

func TestDynamoRepository_KeysByCategoryPaginates(t *testing.T) {
	api := &fakeDynamo{pages: [][]string{{"a.png", "b.png"}, {"c.png"}}}
	repo := NewDynamoRepository(api, "Images", "Category-index")

	keys, err := repo.KeysByCategory(context.Background(), "cats")
	require.NoError(t, err)
	assert.Equal(t, []models.ImageKey{{S3ObjectKey: "a.png"}, {S3ObjectKey: "b.png"}, {S3ObjectKey: "c.png"}}, keys)

	require.Len(t, api.queries, 2)
	q := api.queries[0]
	assert.Equal(t, "Category-index", aws.ToString(q.IndexName))
	assert.Equal(t, "S3ObjectKey", aws.ToString(q.ProjectionExpression))
	assert.Equal(t, "Category = :category", aws.ToString(q.KeyConditionExpression))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "cats"}, q.ExpressionAttributeValues[":category"])
	assert.NotNil(t, api.queries[1].ExclusiveStartKey)
}

func TestDynamoRepository_KeysByCategoryEmpty(t *testing.T) {
	repo := NewDynamoRepository(&fakeDynamo{pages: [][]string{nil}}, "Images", "Category-index")

	keys, err := repo.KeysByCategory(context.Background(), "cats")
	require.NoError(t, err)
	assert.NotNil(t, keys)
	assert.Empty(t, keys)
}

func TestDynamoRepository_QueryError(t *testing.T) {
	repo := NewDynamoRepository(&fakeDynamo{queryErr: errors.New("throttled")}, "Images", "Category-index")

	_, err := repo.KeysByCategory(context.Background(), "cats")
	require.ErrorContains(t, err, "throttled")
}

func TestNewDynamoRepositoryFromConfig(t *testing.T) {
	orig := newDynamoClientFromConfig
	t.Cleanup(func() { newDynamoClientFromConfig = orig })

	var opts dynamodb.Options
	newDynamoClientFromConfig = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) *dynamodb.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &dynamodb.Client{}
	}

	repo, err := NewDynamoRepositoryFromConfig(context.Background(),
		awsx.Options{Region: "us-west-2", AccessKey: "k", SecretKey: "s"}, "http://localhost:8000", "Images", "Category-index")
	require.NoError(t, err)
	assert.Equal(t, "Images", repo.table)
	assert.Equal(t, "http://localhost:8000", aws.ToString(opts.BaseEndpoint))
}
