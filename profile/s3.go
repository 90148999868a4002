package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"mealcompanion"
)

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads JSON profile records stored at <prefix><id>.json in a bucket.
type S3Store struct {
	bucket string
	prefix string
	s3     s3API
}

func NewS3Store(s3Client s3API, bucket, prefix string) *S3Store {
	return &S3Store{
		bucket: bucket,
		prefix: prefix,
		s3:     s3Client,
	}
}

func (s *S3Store) Lookup(ctx context.Context, userID string) (mealcompanion.Profile, error) {
	id, err := NormalizeUserID(userID)
	if err != nil {
		return mealcompanion.Profile{}, err
	}

	key := s.prefix + id + ".json"
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return mealcompanion.Profile{}, fmt.Errorf("user id %q at s3://%s/%s: %w", id, s.bucket, key, ErrNotFound)
		}
		return mealcompanion.Profile{}, fmt.Errorf("failed to get profile object from S3: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return mealcompanion.Profile{}, fmt.Errorf("read profile object %q: %w", key, err)
	}
	return decode(id, data, formatJSON)
}
