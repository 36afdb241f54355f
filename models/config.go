package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Telnyx SMS gateway
	TelnyxAPIKey     string `mapstructure:"telnyx_api_key"`
	TelnyxFromNumber string `mapstructure:"telnyx_from_number"`
	TelnyxMessageURL string `mapstructure:"telnyx_message_url"`

	// Assignment engine
	RepositoryTimeout   time.Duration `mapstructure:"repository_timeout"`
	NotificationTimeout time.Duration `mapstructure:"notification_timeout"`
	SMSOutboxTTL        time.Duration `mapstructure:"sms_outbox_ttl"`
	SweepCronSchedule   string        `mapstructure:"sweep_cron_schedule"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	Tables []string `mapstructure:"tables"`
}
