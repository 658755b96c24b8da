package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
)

const archiveFolder = "chat-transcripts"

// ErrEmptyTranscript is returned when there is nothing to archive
var ErrEmptyTranscript = errors.New("transcript is empty")

// ObjectPutter is the part of the S3 client the archive needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores chat transcripts as JSON objects before they are cleared
type S3Archive struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

type archivedTranscript struct {
	ArchivedAt time.Time           `json:"archived_at"`
	Messages   []model.ChatMessage `json:"messages"`
}

// NewS3Archive creates an archive for bucket. Static credentials are used
// when both keys are set, otherwise the default credential chain.
func NewS3Archive(ctx context.Context, region, bucket, accessKeyID, secretAccessKey string) *S3Archive {
	var cfg aws.Config
	var err error

	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			logger.Warn("Failed to load AWS config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = aws.Config{Region: region}
		}
	}

	return NewS3ArchiveWithClient(s3.NewFromConfig(cfg), bucket)
}

func NewS3ArchiveWithClient(client ObjectPutter, bucket string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
		now:    time.Now,
	}
}

// Archive uploads messages and returns the object key
func (a *S3Archive) Archive(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyTranscript
	}

	now := a.now().UTC()
	body, err := json.Marshal(archivedTranscript{ArchivedAt: now, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", archiveFolder, now.Format("2006-01-02"), uuid.New().String())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}

	logger.Debug("Transcript uploaded", map[string]interface{}{
		"bucket": a.bucket,
		"key":    key,
		"bytes":  len(body),
	})
	return key, nil
}
