package utils

import (
	"disasterlink-backend/models"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	if v.IsSet("app") {
		flattenNestedConfig(v)
	}

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Durations may arrive as strings from config.json
	for key, dst := range map[string]*time.Duration{
		"jwt.expires_in":              &config.JWTExpiresIn,
		"engine.repository_timeout":   &config.RepositoryTimeout,
		"engine.notification_timeout": &config.NotificationTimeout,
		"engine.sms_outbox_ttl":       &config.SMSOutboxTTL,
	} {
		if v.IsSet(key) {
			s := v.GetString(key)
			if s == "" {
				continue
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid duration for %s: %w", key, err)
			}
			*dst = d
		}
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "DisasterLink Backend")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	v.SetDefault("jwt_secret", "change-this-jwt-secret-before-production")
	v.SetDefault("jwt_expires_in", 30*time.Minute)

	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	v.SetDefault("telnyx_api_key", "")
	v.SetDefault("telnyx_from_number", "")
	v.SetDefault("telnyx_message_url", "https://api.telnyx.com/v2/messages")

	v.SetDefault("repository_timeout", 5*time.Second)
	v.SetDefault("notification_timeout", 10*time.Second)
	v.SetDefault("sms_outbox_ttl", 24*time.Hour)
	v.SetDefault("sweep_cron_schedule", "@every 2m")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("basePath", "/api/v1")

	v.SetDefault("tables", []string{"victims", "rescuers", "rescue_teams", "incidents", "shelters", "sms_outbox", "operators"})
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == "change-this-jwt-secret-before-production" && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	return nil
}

// flattenNestedConfig flattens the nested JSON structure to flat keys for easier mapping
func flattenNestedConfig(v *viper.Viper) {
	nested := map[string]string{
		"app.name":                   "app_name",
		"app.version":                "app_version",
		"app.env":                    "app_env",
		"app.host":                   "app_host",
		"app.port":                   "app_port",
		"jwt.secret":                 "jwt_secret",
		"aws.region":                 "aws_region",
		"aws.access_key_id":          "aws_access_key_id",
		"aws.secret_access_key":      "aws_secret_access_key",
		"aws.dynamodb_endpoint":      "dynamodb_endpoint",
		"aws.dynamodb_table_prefix":  "dynamodb_table_prefix",
		"telnyx.api_key":             "telnyx_api_key",
		"telnyx.from_number":         "telnyx_from_number",
		"telnyx.message_url":         "telnyx_message_url",
		"engine.sweep_cron_schedule": "sweep_cron_schedule",
		"logging.level":              "log_level",
		"logging.format":             "log_format",
	}
	for src, dst := range nested {
		if v.IsSet(src) {
			v.Set(dst, v.GetString(src))
		}
	}

	if v.IsSet("cors.origins") {
		v.Set("cors_origins", v.GetStringSlice("cors.origins"))
	}
	if v.IsSet("basePath") {
		v.Set("basePath", v.GetString("basePath"))
	}
	if v.IsSet("tables") {
		v.Set("tables", v.GetStringSlice("tables"))
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// HashPassword hashes a plain text password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a hashed password with a plain text password.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// NormalizePhone strips a leading + so phone-keyed ids are stable across
// SMS gateways that differ on E.164 prefixes.
func NormalizePhone(phone string) string {
	return strings.TrimPrefix(strings.TrimSpace(phone), "+")
}
