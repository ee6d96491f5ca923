package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config points at a bucket prefix on any S3 compatible service.
type S3Config struct {
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	Region    string `mapstructure:"region" yaml:"region"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	PathStyle bool   `mapstructure:"path-style" yaml:"path-style"`

	AccessKeyID            string `mapstructure:"access-key-id" yaml:"access-key-id,omitempty"`
	SecretAccessKey        string `mapstructure:"secret-access-key" yaml:"secret-access-key,omitempty" json:"-"`
	SecretAccessKeyFile    string `mapstructure:"secret-access-key-file" yaml:"secret-access-key-file,omitempty"`
	SecretAccessKeyKeyring string `mapstructure:"secret-access-key-keyring" yaml:"secret-access-key-keyring,omitempty"`
}

type s3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads documents stored directly under a bucket prefix.
type S3Source struct {
	client     s3API
	bucket     string
	prefix     string
	extensions []string
}

// NewS3Source builds a client from cfg. Static credentials are used when
// cfg.AccessKeyID is set, otherwise the default AWS credential chain applies.
func NewS3Source(ctx context.Context, cfg S3Config, secretKey string, extensions []string) (*S3Source, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, secretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return newS3Source(client, cfg.Bucket, cfg.Prefix, extensions), nil
}

func newS3Source(client s3API, bucket, prefix string, extensions []string) *S3Source {
	prefix = strings.TrimLeft(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix, extensions: normalizeExtensions(extensions)}
}

func (s *S3Source) String() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

// Documents lists the prefix one level deep and downloads every matching object in key order.
func (s *S3Source) Documents(ctx context.Context) ([]Document, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", s, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if hasExtension(key, s.extensions) {
				keys = append(keys, key)
			}
		}
	}

	docs := make([]Document, 0, len(keys))
	for _, key := range keys {
		data, err := s.download(ctx, key)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Name: path.Base(key), Data: data})
	}

	return docs, nil
}

func (s *S3Source) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting object %s: %w", key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return buf.Bytes(), nil
}
