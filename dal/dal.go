package dal

import (
	"context"
	"disasterlink-backend/models"
	"errors"
	"fmt"
	"strconv"

	"disasterlink-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

type DynamoDBClient struct {
	client *dynamodb.Client
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override endpoint for local DynamoDB
	if cfg.DynamoDBEndpoint != "" {
		awsCfg.EndpointResolver = aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:           cfg.DynamoDBEndpoint,
				SigningRegion: cfg.AWSRegion,
			}, nil
		})
	}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"", // session token
		))
	}

	client := dynamodb.NewFromConfig(awsCfg)

	dbClient := &DynamoDBClient{
		client: client,
		config: cfg,
		logger: log,
	}

	log.Info("DynamoDB client initialized successfully")
	return dbClient, nil
}

// GetItem retrieves an item by primary key or, when an index is configured,
// by the first match on that index.
func (db *DynamoDBClient) GetItem(ctx context.Context, qc models.QueryConfig, result interface{}) error {
	if qc.IndexName == "" {
		input := &dynamodb.GetItemInput{
			TableName: aws.String(qc.TableName),
			Key: map[string]types.AttributeValue{
				qc.KeyName: attributeValueFor(qc),
			},
		}

		output, err := db.client.GetItem(ctx, input)
		if err != nil {
			db.logger.Errorf("Failed to get item: %v", err)
			return err
		}

		if output.Item == nil {
			return nil
		}

		return attributevalue.UnmarshalMap(output.Item, result)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(qc.TableName),
		IndexName:              aws.String(qc.IndexName),
		Limit:                  aws.Int32(1),
		KeyConditionExpression: aws.String("#kn0 = :kv0"),
		ExpressionAttributeNames: map[string]string{
			"#kn0": qc.KeyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kv0": attributeValueFor(qc),
		},
	}

	output, err := db.client.Query(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to query index %s: %v", qc.IndexName, err)
		return err
	}

	if len(output.Items) == 0 {
		return nil
	}

	return attributevalue.UnmarshalMap(output.Items[0], result)
}

// PutItem stores an item in DynamoDB
func (db *DynamoDBClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	}

	_, err = db.client.PutItem(ctx, input)
	return err
}

// UpdateItem applies an unconditional field patch to an item
func (db *DynamoDBClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	expr, names, values, err := buildSetExpression(updates)
	if err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: keyValue},
		},
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}

	_, err = db.client.UpdateItem(ctx, input)
	return err
}

// ConditionalUpdateItem applies a field patch only when the stored version
// matches expectedVersion, bumping the version in the same write. This is the
// compare-and-set primitive every state-changing write in the assignment
// engine goes through. Returns the new version, or models.ErrConflict when
// the stored version moved underneath the caller.
func (db *DynamoDBClient) ConditionalUpdateItem(ctx context.Context, tableName, key, keyValue string, expectedVersion int64, updates map[string]interface{}) (int64, error) {
	expr, names, values, err := buildSetExpression(updates)
	if err != nil {
		return 0, err
	}

	newVersion := expectedVersion + 1
	expr += ", #version = :newVersion"
	names["#version"] = "version"
	values[":newVersion"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(newVersion, 10)}
	values[":expectedVersion"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: keyValue},
		},
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(#pk) AND #version = :expectedVersion"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueNone,
	}
	input.ExpressionAttributeNames["#pk"] = key

	_, err = db.client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return 0, fmt.Errorf("version %d stale for %s/%s: %w", expectedVersion, tableName, keyValue, models.ErrConflict)
		}
		return 0, err
	}

	return newVersion, nil
}

// DeleteItem deletes an item from DynamoDB
func (db *DynamoDBClient) DeleteItem(ctx context.Context, tableName, key, value string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: value},
		},
	}

	_, err := db.client.DeleteItem(ctx, input)
	return err
}

// QueryByIndex queries items using a global secondary index
func (db *DynamoDBClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		IndexName:              aws.String(indexName),
		Limit:                  aws.Int32(100),
		KeyConditionExpression: aws.String("#kn0 = :kv0"),
		ExpressionAttributeNames: map[string]string{
			"#kn0": keyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kv0": &types.AttributeValueMemberS{Value: keyValue},
		},
	}

	output, err := db.client.Query(ctx, input)
	if err != nil {
		return err
	}

	return attributevalue.UnmarshalListOfMaps(output.Items, results)
}

// Scan scans the entire table
func (db *DynamoDBClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}

	output, err := db.client.Scan(ctx, input)
	if err != nil {
		return err
	}

	return attributevalue.UnmarshalListOfMaps(output.Items, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}
	return db.client.DescribeTable(ctx, input)
}

// DeleteTable deletes a table
func (db *DynamoDBClient) DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error {
	_, err := db.client.DeleteTable(ctx, input)
	return err
}

// EnableTTL enables time-to-live expiry on the named attribute, used by the
// SMS outbox so undelivered messages age out of the table.
func (db *DynamoDBClient) EnableTTL(ctx context.Context, tableName, attributeName string) error {
	input := &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(attributeName),
			Enabled:       aws.Bool(true),
		},
	}

	_, err := db.client.UpdateTimeToLive(ctx, input)
	return err
}

func buildSetExpression(updates map[string]interface{}) (string, map[string]string, map[string]types.AttributeValue, error) {
	expr := "SET "
	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)

	i := 0
	for field, value := range updates {
		if i > 0 {
			expr += ", "
		}

		attrName := "#" + field
		attrValue := ":" + field

		expr += attrName + " = " + attrValue
		names[attrName] = field

		av, err := attributevalue.Marshal(value)
		if err != nil {
			return "", nil, nil, err
		}
		values[attrValue] = av
		i++
	}

	return expr, names, values, nil
}

func attributeValueFor(qc models.QueryConfig) types.AttributeValue {
	if qc.KeyType == models.NumberType {
		return &types.AttributeValueMemberN{Value: qc.KeyValue}
	}
	return &types.AttributeValueMemberS{Value: qc.KeyValue}
}

// isConditionalCheckFailed reports whether an AWS error is a failed
// ConditionExpression, i.e. a lost optimistic-concurrency race.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ConditionalCheckFailedException"
	}

	return false
}
