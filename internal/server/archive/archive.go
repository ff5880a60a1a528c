// Package archive keeps a final JSON snapshot of every destroyed project
// record in object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/mcamera/school-of-solana-season-8/internal/server/models"

	sc "github.com/mcamera/school-of-solana-season-8/internal/server/config"
)

// Reasons a record is destroyed.
const (
	ReasonWithdrawn = "withdrawn"
	ReasonClosed    = "closed_failed"
)

// Snapshot is the archived document.
type Snapshot struct {
	Reason     string          `json:"reason"`
	ArchivedAt time.Time       `json:"archived_at"`
	Payout     uint64          `json:"payout"`
	Project    *models.Project `json:"project"`
}

type Archiver interface {
	Archive(ctx context.Context, s Snapshot) error
}

// putter is the subset of *s3.Client used for uploads.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Archiver struct {
	client putter
	bucket string
}

// NewS3Archiver builds an archiver from the S3 settings in cfg, using static
// credentials and an optional custom endpoint (MinIO).
func NewS3Archiver(ctx context.Context, cfg *sc.Config) (*S3Archiver, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{client: client, bucket: cfg.S3Bucket}, nil
}

// StorageKey places snapshots under the project address, bucketed by day.
func StorageKey(s Snapshot) string {
	d := s.ArchivedAt
	return fmt.Sprintf("projects/%s/%d/%02d/%02d/%s-%v.json",
		s.Project.Address, d.Year(), d.Month(), d.Day(), s.Reason, uuid.New())
}

func (a *S3Archiver) Archive(ctx context.Context, s Snapshot) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	key := StorageKey(s)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Nop discards snapshots; used when no bucket is configured.
type Nop struct{}

func (Nop) Archive(context.Context, Snapshot) error { return nil }
