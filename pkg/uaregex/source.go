package uaregex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the S3 API needed to fetch a database.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// OpenSource opens the raw database referenced by ref: the embedded default
// for "", an S3 object for "s3://bucket/key", and a local file otherwise.
// The caller must close the returned reader.
func OpenSource(ctx context.Context, ref string, opts ...Option) (io.ReadCloser, error) {
	switch {
	case ref == "":
		return io.NopCloser(bytes.NewReader(defaultRegexes)), nil
	case strings.HasPrefix(ref, "s3://"):
		return openS3(ctx, ref, newOptions(opts))
	default:
		f, err := os.Open(ref)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errors.Join(ErrSourceNotFound, err)
			}
			return nil, errors.Join(ErrSourceUnavailable, err)
		}
		return f, nil
	}
}

func openS3(ctx context.Context, ref string, o *options) (io.ReadCloser, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return nil, err
	}

	client := o.s3Client
	if client == nil {
		if client, err = newS3Client(ctx, o); err != nil {
			return nil, err
		}
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error(ref, err)
	}
	return out.Body, nil
}

func parseS3Ref(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", errors.Join(ErrInvalidSourceURL, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidSourceURL, ref)
	}
	return u.Host, key, nil
}

func newS3Client(ctx context.Context, o *options) (S3Client, error) {
	cfg := o.source
	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsOptions = append(awsOptions, o.s3ConfigOptions...)

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, errors.Join(ErrSourceUnavailable, err)
	}

	return s3.NewFromConfig(awsConfig, func(so *s3.Options) {
		if cfg.Endpoint != "" {
			so.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		so.UsePathStyle = cfg.ForcePathStyle
		for _, opt := range o.s3ClientOptions {
			opt(so)
		}
	}), nil
}

func mapS3Error(ref string, err error) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, ref)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, ref)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %s", ErrSourceNotFound, ref)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %s", ErrAccessDenied, ref)
		}
	}
	return errors.Join(ErrSourceUnavailable, err)
}
