package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (r *recordingPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.input = params
	r.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, r.err
}

func transcript() []model.ChatMessage {
	return []model.ChatMessage{
		{From: model.FromUser, Message: "áo dưới 300k"},
		{From: model.FromBot, Message: "**Áo thun basic** 100k đ"},
	}
}

func TestS3Archive_Archive(t *testing.T) {
	putter := &recordingPutter{}
	archive := NewS3ArchiveWithClient(putter, "transcripts")
	archive.now = func() time.Time { return time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC) }

	key, err := archive.Archive(context.Background(), transcript())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "chat-transcripts/2024-05-02/"))
	assert.True(t, strings.HasSuffix(key, ".json"))
	assert.Equal(t, "transcripts", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))

	var stored archivedTranscript
	require.NoError(t, json.Unmarshal(putter.body, &stored))
	assert.Equal(t, transcript(), stored.Messages)
}

func TestS3Archive_Empty(t *testing.T) {
	archive := NewS3ArchiveWithClient(&recordingPutter{}, "transcripts")

	_, err := archive.Archive(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestS3Archive_UploadFailure(t *testing.T) {
	cause := errors.New("access denied")
	archive := NewS3ArchiveWithClient(&recordingPutter{err: cause}, "transcripts")

	_, err := archive.Archive(context.Background(), transcript())
	assert.ErrorIs(t, err, cause)
}

func TestS3Archive_AgainstEndpoint(t *testing.T) {
	var mu sync.Mutex
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(b)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := s3.New(s3.Options{
		Region:                     "ap-southeast-1",
		BaseEndpoint:               aws.String(srv.URL),
		UsePathStyle:               true,
		Credentials:                credentials.NewStaticCredentialsProvider("key", "secret", ""),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	})
	archive := NewS3ArchiveWithClient(client, "transcripts")

	key, err := archive.Archive(context.Background(), transcript())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/transcripts/"+key, path)
	assert.Contains(t, body, "Áo thun basic")
}
