package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// Storage persists backup blobs. Local keeps them in a directory; Spaces
// writes to an S3-compatible bucket.
type Storage interface {
	SaveBackup(data []byte, filename string) (string, error)
	ReadBackup(location string) ([]byte, error)
}

type LocalStorage struct {
	backupDir string
}

type SpacesStorage struct {
	client *s3.S3
	bucket string
}

func NewLocalStorage(backupDir string) *LocalStorage {
	return &LocalStorage{backupDir: backupDir}
}

func NewSpacesStorage(endpoint, region, bucket, accessKey, secretKey string) (*SpacesStorage, error) {
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
		client: s3.New(sess),
		bucket: bucket,
	}, nil
}

func (ls *LocalStorage) SaveBackup(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(ls.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(ls.backupDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("backup written")
	return path, nil
}

func (ls *LocalStorage) ReadBackup(location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return data, nil
}

func (ss *SpacesStorage) SaveBackup(data []byte, filename string) (string, error) {
	key := fmt.Sprintf("backups/%s", filename)

	_, err := ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		ACL:         aws.String("private"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("backup uploaded")
	return key, nil
}

func (ss *SpacesStorage) ReadBackup(location string) ([]byte, error) {
	out, err := ss.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch backup: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			return
		}
	}(out.Body)

	return io.ReadAll(out.Body)
}
