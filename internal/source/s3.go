package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/footprint"
)

// S3Provider reads a catalog subset from an S3-compatible object store.
type S3Provider struct {
	client *s3.Client
	bucket string
	key    string

	provenance string
}

var _ Provider = (*S3Provider)(nil)

// parseS3Ref splits "s3://bucket/key" into bucket and key.
func parseS3Ref(ref string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(ref, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 reference %q: expected s3://bucket/key", ref)
	}
	return bucket, key, nil
}

// NewS3Provider creates a provider for an s3://bucket/key reference. If
// endpoint is non-empty, path-style addressing is enabled (for MinIO and
// similar).
func NewS3Provider(ctx context.Context, ref, provenance, region, endpoint string) (*S3Provider, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Provider{
		client:     s3.NewFromConfig(cfg, s3opts...),
		bucket:     bucket,
		key:        key,
		provenance: provenance,
	}, nil
}

func (p *S3Provider) Select(ctx context.Context, fp footprint.Footprint) (*catalog.Catalog, error) {
	resource := fmt.Sprintf("s3://%s/%s", p.bucket, p.key)
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key),
	})
	if err != nil {
		return nil, &AccessError{Resource: resource, Err: err}
	}
	defer out.Body.Close()

	c, err := catalog.Read(out.Body)
	if err != nil {
		return nil, &AccessError{Resource: resource, Err: err}
	}
	selected := c.Filter(fp)
	tag(selected, p.provenance)
	return selected, nil
}
