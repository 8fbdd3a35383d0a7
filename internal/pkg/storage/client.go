package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// ThumbnailWidth is the bounding width for generated gallery thumbnails.
const ThumbnailWidth = 400

// Client wraps the S3 client with image-upload functionality for moodboard
// and model galleries.
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// UploadResult describes a stored image and its thumbnail.
type UploadResult struct {
	ObjectKey    string
	ThumbnailKey string
	URL          string
	ThumbnailURL string
	Size         int64
	ContentType  string
}

// NewClient creates a new object storage client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 storage is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services generally need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[Storage] Successfully initialized S3 client for bucket: %s", cfg.GetBucketName())
	return client, nil
}

// testConnection checks that the configured bucket is reachable
func (c *Client) testConnection() error {
	_, err := c.s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(c.config.GetBucketName()),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.config.GetBucketName(), err)
	}
	return nil
}

// UploadImage stores an uploaded image under the given category
// ("moodboards" or "models"), generates a thumbnail alongside it, and
// returns the public URLs for both.
func (c *Client) UploadImage(ctx context.Context, category, filename string, data []byte) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := getContentType(ext)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unsupported image type: %s", ext)
	}

	now := time.Now()
	imageUUID := uuid.New().String()
	objectKey := c.config.GetObjectKey(category, imageUUID, ext, now.Year(), int(now.Month()))

	if err := c.putObject(ctx, objectKey, contentType, data); err != nil {
		return nil, err
	}

	result := &UploadResult{
		ObjectKey:   objectKey,
		URL:         c.config.PublicURL(objectKey),
		Size:        int64(len(data)),
		ContentType: contentType,
	}

	// Thumbnail failures are not fatal, the original is already stored.
	thumbKey, err := c.uploadThumbnail(ctx, category, imageUUID, data)
	if err != nil {
		log.Warnf("[Storage] Thumbnail generation failed for %s: %v", objectKey, err)
	} else {
		result.ThumbnailKey = thumbKey
		result.ThumbnailURL = c.config.PublicURL(thumbKey)
	}

	log.Infof("[Storage] Successfully uploaded: s3://%s/%s (Size: %d bytes)",
		c.config.GetBucketName(), objectKey, len(data))
	return result, nil
}

func (c *Client) uploadThumbnail(ctx context.Context, category, imageUUID string, data []byte) (string, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resizeForThumbnail(src)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	now := time.Now()
	thumbKey := c.config.GetObjectKey(category+"/thumbs", imageUUID, ".jpg", now.Year(), int(now.Month()))
	if err := c.putObject(ctx, thumbKey, "image/jpeg", buf.Bytes()); err != nil {
		return "", err
	}
	return thumbKey, nil
}

func resizeForThumbnail(src image.Image) image.Image {
	if src.Bounds().Dx() <= ThumbnailWidth {
		return src
	}
	// Height 0 keeps the aspect ratio
	return imaging.Resize(src, ThumbnailWidth, 0, imaging.Lanczos)
}

func (c *Client) putObject(ctx context.Context, objectKey, contentType string, data []byte) error {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.GetBucketName()),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// DeleteImage deletes an object from storage
func (c *Client) DeleteImage(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.GetBucketName()),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	log.Infof("[Storage] Deleted: s3://%s/%s", c.config.GetBucketName(), objectKey)
	return nil
}

// getContentType maps a file extension to its MIME type
func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".avif":
		return "image/avif"
	default:
		return "application/octet-stream"
	}
}
