package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	cc "github.com/dmitrijs2005/visitordesk/internal/client/config"
	"github.com/dmitrijs2005/visitordesk/internal/logging"
)

// Seams for unit tests: allow stubbing the AWS SDK constructors and calls.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// Exporter renders the full ledger to CSV and uploads it to an S3-compatible
// bucket (MinIO works via S3BaseEndpoint). Admin-only at the REPL level.
type Exporter struct {
	ledger *Ledger
	config *cc.Config
	log    logging.Logger
}

func NewExporter(ledger *Ledger, config *cc.Config, log logging.Logger) *Exporter {
	return &Exporter{ledger: ledger, config: config, log: log.With("component", "export")}
}

// exportStorageKey builds a date-partitioned object key.
func exportStorageKey() string {
	d := timeNow()
	return fmt.Sprintf("exports/%d/%02d/%02d/%v.csv", d.Year(), int(d.Month()), d.Day(), uuid.New())
}

func (e *Exporter) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(e.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.config.S3AccessKey,
			e.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.config.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return client, nil
}

// ExportCSV uploads the current ledger as a CSV object and returns its key.
func (e *Exporter) ExportCSV(ctx context.Context) (string, error) {
	if e.config.S3Bucket == "" {
		return "", fmt.Errorf("no export bucket configured")
	}

	records, err := e.ledger.Records(ctx, "")
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "name", "phone", "email", "purpose", "host", "notes",
		"entry_time", "exit_time", "status", "logged_by", "created_at"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Name,
			rec.Phone,
			rec.Email,
			rec.Purpose,
			rec.Host,
			rec.Notes,
			rec.EntryTime,
			rec.ExitTime,
			string(rec.Status),
			rec.LoggedBy,
			rec.CreatedAt,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	client, err := e.getS3Client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	key := exportStorageKey()
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	e.log.Info(ctx, "ledger exported", "bucket", e.config.S3Bucket, "key", key, "records", len(records))
	return key, nil
}
