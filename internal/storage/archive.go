// Package storage keeps off-site copies of certificate files in an
// S3-compatible bucket (Cloudflare R2 in production).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"parish-backend/internal/config"
	"parish-backend/internal/models"
	"parish-backend/internal/timeutil"
)

// Archiver stores a copy of an uploaded certificate file.
type Archiver interface {
	Store(ctx context.Context, cert *models.IssuedCertificate) error
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archive struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Archive builds the client from the archive config. Static keys are
// used when present, the default AWS credential chain otherwise.
func NewS3Archive(ctx context.Context, cfg config.Archive) (*S3Archive, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.StaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure archive client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Archive(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Archive(client putObjectAPI, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}
}

// ObjectKey files certificates by issue month:
// "<prefix>2026/10/<certificate id>-<file name>".
func ObjectKey(prefix string, cert *models.IssuedCertificate) string {
	issued := cert.DateIssued.In(timeutil.PHT)
	name := models.Deref(cert.FileName)
	if name == "" {
		name = "certificate"
	}
	return prefix + path.Join(issued.Format("2006/01"), cert.ID+"-"+name)
}

func (a *S3Archive) Store(ctx context.Context, cert *models.IssuedCertificate) error {
	if len(cert.FileData) == 0 {
		return fmt.Errorf("certificate %s has no file to archive", cert.ID)
	}
	contentType := models.Deref(cert.FileMimeType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ObjectKey(a.prefix, cert)),
		Body:        bytes.NewReader(cert.FileData),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"request-id": cert.RequestID,
			"type":       cert.Type,
		},
	})
	if err != nil {
		return fmt.Errorf("archive certificate %s: %w", cert.ID, err)
	}
	return nil
}
