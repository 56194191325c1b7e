// Package deadletter keeps inbound payloads that could not be recorded so they
// can be inspected or replayed by hand.
package deadletter

import (
	"bytes"
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"io"
	"math/rand"
	"sync"
	"time"
)

type Archive interface {
	Put(ctx context.Context, reason string, payload []byte) (string, error)
}

// Discard is used when no archive is configured.
type Discard struct{}

func (Discard) Put(ctx context.Context, reason string, payload []byte) (string, error) {
	return "", nil
}

// S3Archive writes one object per payload. Keys are ULIDs so a listing comes
// back in arrival order.
type S3Archive struct {
	api    s3iface.S3API
	bucket string
	prefix string

	mu      sync.Mutex
	entropy io.Reader
}

func NewS3Archive(api s3iface.S3API, bucket, prefix string) *S3Archive {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return &S3Archive{api: api, bucket: bucket, prefix: prefix, entropy: entropy}
}

func (s *S3Archive) Put(ctx context.Context, reason string, payload []byte) (string, error) {
	key := s.prefix + s.nextID() + ".json"

	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
		Metadata: map[string]*string{
			"reason": aws.String(truncate(reason, 1024)),
		},
	})
	if err != nil {
		return "", errors.WithStack(err)
	}
	return key, nil
}

func (s *S3Archive) nextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// S3 caps user metadata at 2KB per object.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
