package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"lawyerup-backend/internal/shared/storage/object"
)

const resourceTypeMetaKey = "resource-type"

// Options configures the S3 remote store.
type Options struct {
	Region string
	Bucket string
	Prefix string
	// Endpoint points at an S3-compatible service; path-style addressing is used when set.
	Endpoint string
	// PublicBaseURL, when set, replaces the S3 URL in returned locations (CDN, custom domain).
	PublicBaseURL string
}

// Store implements object.RemoteClient using Amazon S3.
type Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	region  string
	baseURL string
}

// New creates a new S3-backed remote store from the default AWS credential chain.
func New(ctx context.Context, opts Options) (*Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewFromConfig(cfg, opts)
}

// NewFromConfig creates a store from an already loaded AWS config.
func NewFromConfig(cfg aws.Config, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL(endpoint, opts.Bucket, cfg.Region)
	}

	return &Store{
		client:  client,
		bucket:  opts.Bucket,
		prefix:  normalizePrefix(opts.Prefix),
		region:  cfg.Region,
		baseURL: baseURL,
	}, nil
}

// UploadStream writes data under the folder with a generated object name and
// returns its public URL. There is no retry.
func (s *Store) UploadStream(ctx context.Context, opts object.UploadOptions, data []byte) (object.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return object.UploadResult{}, err
	}

	objectKey := applyPrefix(s.prefix, objectName(opts.Folder, opts.Extension))

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	input := &s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(objectKey),
		Body:                 bytes.NewReader(data),
		ContentLength:        aws.Int64(int64(len(data))),
		ContentType:          aws.String(contentType),
		Metadata:             map[string]string{resourceTypeMetaKey: opts.ResourceType},
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return object.UploadResult{}, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}

	return object.UploadResult{SecureURL: s.baseURL + "/" + objectKey}, nil
}

func objectName(folder, ext string) string {
	name := uuid.NewString() + strings.ToLower(ext)
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func defaultBaseURL(endpoint, bucket, region string) string {
	if endpoint != "" {
		return endpoint + "/" + bucket
	}
	if region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

var _ object.RemoteClient = (*Store)(nil)
