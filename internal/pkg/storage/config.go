package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/latpategaurav/blu/internal/pkg/env"
)

// Config holds object storage configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Base URL images are served from
	Enabled         bool
}

// LoadConfig loads object storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "ap-south-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
		Enabled:         env.GetEnv("S3_STORAGE_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when S3 storage is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when S3 storage is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when S3 storage is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if S3 storage is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// GetBucketName returns the bucket name as configured
func (c *Config) GetBucketName() string {
	return c.BucketName
}

// GetObjectKey generates a standardized S3 object key for an uploaded image
func (c *Config) GetObjectKey(category, imageUUID, fileExtension string, year, month int) string {
	// Format: <category>/YYYY/MM/UUID.ext
	return fmt.Sprintf("%s/%04d/%02d/%s%s", category, year, month, imageUUID, fileExtension)
}

// PublicURL returns the browser-facing URL for an object key
func (c *Config) PublicURL(objectKey string) string {
	if c.PublicBaseURL != "" {
		return strings.TrimRight(c.PublicBaseURL, "/") + "/" + objectKey
	}
	if c.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.EndpointURL, "/"), c.BucketName, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.BucketName, c.Region, objectKey)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}
