package storage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"zillow_scraper/config"
)

// SnapshotArchiver ships acquired HTML snapshots to S3-compatible storage,
// best-effort: a failed upload is logged and never fails the scrape.
type SnapshotArchiver struct {
	client *s3.Client
	bucket string
}

func NewSnapshotArchiver(ctx context.Context, cfg config.SnapshotConfig) (*SnapshotArchiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &SnapshotArchiver{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Archive uploads one snapshot under a date-partitioned key.
func (a *SnapshotArchiver) Archive(ctx context.Context, pageURL, html string) {
	key := fmt.Sprintf("snapshots/%s/%s.html", time.Now().Format("2006/01/02"), uuid.New())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(html),
		ContentType: aws.String("text/html"),
		Metadata:    map[string]string{"source-url": pageURL},
	})
	if err != nil {
		log.Printf("Snapshot upload failed for %s: %v", pageURL, err)
		return
	}
	log.Printf("Archived snapshot of %s as %s", pageURL, key)
}
