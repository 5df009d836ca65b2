package uaregex

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/uakit/pkg/logger"
)

// SourceConfig configures access to S3 hosted databases.
type SourceConfig struct {
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint       string `env:"S3_ENDPOINT"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Option configures Load, Open and OpenSource.
type Option func(*options)

type options struct {
	log             *slog.Logger
	skipInvalid     bool
	s3Client        S3Client
	source          SourceConfig
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3.Options)
}

func newOptions(opts []Option) *options {
	o := &options{
		log:    logger.Discard(),
		source: SourceConfig{Region: "us-east-1"},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report skipped rules.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = logger.OrDiscard(l) }
}

// WithSkipInvalid drops rules whose regex does not compile instead of
// failing the whole load.
func WithSkipInvalid() Option {
	return func(o *options) { o.skipInvalid = true }
}

// WithS3Client uses a pre-configured client for s3:// sources.
func WithS3Client(c S3Client) Option {
	return func(o *options) { o.s3Client = c }
}

// WithSourceConfig sets the S3 connection settings.
func WithSourceConfig(cfg SourceConfig) Option {
	return func(o *options) { o.source = cfg }
}

// WithS3ConfigOption adds an AWS SDK config load option.
func WithS3ConfigOption(fn func(*config.LoadOptions) error) Option {
	return func(o *options) { o.s3ConfigOptions = append(o.s3ConfigOptions, fn) }
}

// WithS3ClientOption adds an S3 client option.
func WithS3ClientOption(fn func(*s3.Options)) Option {
	return func(o *options) { o.s3ClientOptions = append(o.s3ClientOptions, fn) }
}
