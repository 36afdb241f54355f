package worker

import (
	"context"
	"disasterlink-backend/dal"
	"disasterlink-backend/infrastructure"
	"disasterlink-backend/models"
	"disasterlink-backend/utils/logger"
	"errors"
	"fmt"
	"time"

	"github.com/aws/smithy-go"
)

// InfrastructureSetup provisions the DynamoDB tables on startup so a fresh
// environment is usable without manual table creation.
type InfrastructureSetup struct {
	Config   *models.Config
	Logger   logger.Logger
	DBClient dal.DatabaseClientInterface
}

// NewInfrastructureSetup creates a new infrastructure setup handler
func NewInfrastructureSetup(cfg *models.Config, log logger.Logger, dbClient dal.DatabaseClientInterface) *InfrastructureSetup {
	return &InfrastructureSetup{
		Config:   cfg,
		Logger:   log,
		DBClient: dbClient,
	}
}

// Execute creates every configured table that does not exist yet and enables
// TTL where the schema declares a TTL attribute. Tables are created
// sequentially to avoid throttling.
func (is *InfrastructureSetup) Execute(ctx context.Context) error {
	is.Logger.Info("Provisioning DynamoDB tables...")

	for _, baseName := range is.Config.Tables {
		tableName := is.Config.DynamoDBTablePrefix + "_" + baseName
		if err := is.ensureTable(ctx, tableName); err != nil {
			return fmt.Errorf("failed to provision table %s: %w", tableName, err)
		}
	}

	is.Logger.Infof("Provisioned %d tables", len(is.Config.Tables))
	return nil
}

func (is *InfrastructureSetup) ensureTable(ctx context.Context, tableName string) error {
	exists, err := is.tableExists(ctx, tableName)
	if err != nil {
		return err
	}
	if exists {
		is.Logger.Debugf("Table %s already exists", tableName)
		return nil
	}

	input, err := infrastructure.GetTables(tableName)
	if err != nil {
		return err
	}

	if err := is.DBClient.CreateTable(ctx, input); err != nil {
		return err
	}
	is.Logger.Infof("Created table %s", tableName)

	if err := is.waitForTableActive(ctx, tableName); err != nil {
		return err
	}

	if ttlAttr := infrastructure.TTLAttributeFor(tableName); ttlAttr != "" {
		if err := is.DBClient.EnableTTL(ctx, tableName, ttlAttr); err != nil {
			return fmt.Errorf("failed to enable TTL on %s: %w", tableName, err)
		}
		is.Logger.Infof("Enabled TTL on %s (%s)", tableName, ttlAttr)
	}

	return nil
}

func (is *InfrastructureSetup) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := is.DBClient.DescribeTable(ctx, tableName)
	if err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (is *InfrastructureSetup) waitForTableActive(ctx context.Context, tableName string) error {
	deadline := time.Now().Add(2 * time.Minute)

	for time.Now().Before(deadline) {
		out, err := is.DBClient.DescribeTable(ctx, tableName)
		if err == nil && out.Table != nil && out.Table.TableStatus == "ACTIVE" {
			return nil
		}

		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("table %s did not become active in time", tableName)
}

func isTableNotFoundError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}
	return false
}
