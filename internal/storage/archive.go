// Package storage archives rendered invoices in object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"razorpay-checkout/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// InvoiceArchive stores a copy of every invoice PDF served.
type InvoiceArchive interface {
	Put(ctx context.Context, invoiceID string, pdf []byte) error
}

// NewInvoiceArchive returns an S3 archive when a bucket is configured and a
// no-op archive otherwise.
func NewInvoiceArchive(cfg *config.S3Archive, logger *zap.Logger) (InvoiceArchive, error) {
	if cfg.Bucket == "" {
		logger.Info("invoice archive disabled")
		return NopArchive{}, nil
	}

	archive, err := NewS3InvoiceArchive(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("archiving invoices to S3", zap.String("bucket", cfg.Bucket), zap.String("prefix", cfg.Prefix))
	return archive, nil
}

// S3InvoiceArchive writes invoices to any S3-compatible store.
type S3InvoiceArchive struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3InvoiceArchive(cfg *config.S3Archive) (*S3InvoiceArchive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3InvoiceArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (a *S3InvoiceArchive) Put(ctx context.Context, invoiceID string, pdf []byte) error {
	key := a.Key(invoiceID)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(pdf),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(pdf))),
	})
	if err != nil {
		return fmt.Errorf("put invoice %s: %w", key, err)
	}
	return nil
}

// Key is the object key for an invoice, e.g. invoices/INV-20261017-4.pdf.
func (a *S3InvoiceArchive) Key(invoiceID string) string {
	return a.prefix + invoiceID + ".pdf"
}

type NopArchive struct{}

func (NopArchive) Put(ctx context.Context, invoiceID string, pdf []byte) error {
	return nil
}

var (
	_ InvoiceArchive = (*S3InvoiceArchive)(nil)
	_ InvoiceArchive = NopArchive{}
)
