package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// Storage resolves a stored media location into the URL a player fetches.
// Already-absolute URLs pass through untouched.
type Storage interface {
	ResolveURL(stored string) string
}

// LocalStorage serves media out of the uploads directory behind baseURL.
type LocalStorage struct {
	baseURL string
}

func NewLocalStorage(baseURL string) *LocalStorage {
	return &LocalStorage{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (ls *LocalStorage) ResolveURL(stored string) string {
	if isAbsolute(stored) {
		return stored
	}
	return ls.baseURL + "/uploads/" + strings.TrimPrefix(stored, "/")
}

// SpacesStorage serves media from an S3-compatible bucket, preferring the
// CDN edge when one is configured and falling back to presigned GETs for
// private objects.
type SpacesStorage struct {
	client  *s3.S3
	bucket  string
	cdnURL  string
	presign time.Duration
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client:  s3.New(sess),
		bucket:  bucket,
		cdnURL:  strings.TrimSuffix(cdnURL, "/"),
		presign: 15 * time.Minute,
	}, nil
}

func (ss *SpacesStorage) ResolveURL(stored string) string {
	if isAbsolute(stored) {
		return stored
	}
	key := strings.TrimPrefix(stored, "/")
	if ss.cdnURL != "" {
		return ss.cdnURL + "/" + key
	}

	req, _ := ss.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(ss.presign)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to presign media URL")
		return stored
	}
	return url
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
