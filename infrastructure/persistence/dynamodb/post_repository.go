package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"blog-backend/application/ports"
	"blog-backend/domain/core/entities"
	"blog-backend/domain/core/valueobjects"
	"blog-backend/infrastructure/persistence/records"
	pkgerrors "blog-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// PostRepository stores posts in a single DynamoDB table keyed by id,
// with a global secondary index on owner.
type PostRepository struct {
	client     DynamoDBAPI
	tableName  string
	ownerIndex string
	logger     *zap.Logger
}

var (
	_ ports.PostRepository = (*PostRepository)(nil)
	_ ports.HealthChecker  = (*PostRepository)(nil)
)

// NewPostRepository creates a new DynamoDB post repository
func NewPostRepository(client DynamoDBAPI, tableName, ownerIndex string, logger *zap.Logger) *PostRepository {
	return &PostRepository{
		client:     client,
		tableName:  tableName,
		ownerIndex: ownerIndex,
		logger:     logger,
	}
}

func (r *PostRepository) key(id valueobjects.PostID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		records.AttrID: &types.AttributeValueMemberS{Value: id.String()},
	}
}

// GetByID retrieves a post by its ID
func (r *PostRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(id),
	})
	if err != nil {
		return nil, r.storeError("GetItem", id.String(), err)
	}

	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("post")
	}

	return r.parseItem(result.Item)
}

// Create stores a new post, refusing to overwrite an existing id
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	item, err := attributevalue.MarshalMap(records.FromEntity(post))
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(records.AttrID))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return pkgerrors.NewConflictError(fmt.Sprintf("post %s already exists", post.ID())).WithCause(err)
		}
		return r.storeError("PutItem", post.ID().String(), err)
	}

	r.logger.Debug("Post created",
		zap.String("postID", post.ID().String()),
		zap.String("owner", post.Owner()),
	)

	return nil
}

// Update writes the changed attributes and returns their stored values (UPDATED_NEW)
func (r *PostRepository) Update(ctx context.Context, id valueobjects.PostID, owner string, changes valueobjects.PostChanges) (valueobjects.PostChanges, error) {
	expr, err := buildUpdateExpression(owner, changes)
	if err != nil {
		return valueobjects.PostChanges{}, err
	}

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return valueobjects.PostChanges{}, pkgerrors.NewConflictError("post owner condition failed").WithCause(err)
		}
		return valueobjects.PostChanges{}, r.storeError("UpdateItem", id.String(), err)
	}

	var updated map[string]string
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return valueobjects.PostChanges{}, fmt.Errorf("failed to unmarshal updated attributes: %w", err)
	}

	// Keep the request order; DynamoDB returns attributes as an unordered map
	stored := make([]valueobjects.FieldChange, 0, len(updated))
	for _, c := range changes.Changes() {
		if v, ok := updated[string(c.Field)]; ok {
			stored = append(stored, valueobjects.FieldChange{Field: c.Field, Value: v})
		}
	}

	return valueobjects.NewPostChanges(stored...)
}

// Delete removes a post unconditionally
func (r *PostRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(id),
	})
	if err != nil {
		return r.storeError("DeleteItem", id.String(), err)
	}

	r.logger.Debug("Post deleted", zap.String("postID", id.String()))
	return nil
}

// DeleteIfOwner removes a post only while it belongs to owner
func (r *PostRepository) DeleteIfOwner(ctx context.Context, id valueobjects.PostID, owner string) error {
	expr, err := expression.NewBuilder().WithCondition(ownerCondition(owner)).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.key(id),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return pkgerrors.NewConflictError("post owner condition failed").WithCause(err)
		}
		return r.storeError("DeleteItem", id.String(), err)
	}

	r.logger.Debug("Post deleted",
		zap.String("postID", id.String()),
		zap.String("owner", owner),
	)
	return nil
}

// List scans the whole table, following every page
func (r *PostRepository) List(ctx context.Context) ([]*entities.Post, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})

	posts := []*entities.Post{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, r.storeError("Scan", "", err)
		}
		posts = append(posts, r.parseItems(page.Items)...)
	}

	return posts, nil
}

// ListByOwner queries the owner index, following every page
func (r *PostRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Post, error) {
	keyCond := expression.Key(records.AttrOwner).Equal(expression.Value(owner))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.ownerIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	posts := []*entities.Post{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, r.storeError("Query", "", err)
		}
		posts = append(posts, r.parseItems(page.Items)...)
	}

	return posts, nil
}

// Ping checks that the table is reachable
func (r *PostRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return r.storeError("DescribeTable", "", err)
	}
	return nil
}

func (r *PostRepository) parseItem(item map[string]types.AttributeValue) (*entities.Post, error) {
	var rec records.PostRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}
	return rec.ToEntity()
}

func (r *PostRepository) parseItems(items []map[string]types.AttributeValue) []*entities.Post {
	posts := make([]*entities.Post, 0, len(items))
	for _, item := range items {
		post, err := r.parseItem(item)
		if err != nil {
			r.logger.Warn("Failed to parse item", zap.Error(err))
			continue
		}
		posts = append(posts, post)
	}
	return posts
}

// storeError logs a DynamoDB failure and converts it to a DATABASE error
func (r *PostRepository) storeError(operation, postID string, err error) error {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("table", r.tableName),
		zap.Error(err),
	}
	if postID != "" {
		fields = append(fields, zap.String("postID", postID))
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		fields = append(fields,
			zap.String("errorCode", ae.ErrorCode()),
			zap.String("errorFault", ae.ErrorFault().String()),
		)
	}

	r.logger.Error("DynamoDB operation failed", fields...)
	return pkgerrors.NewDatabaseError(operation, err)
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
