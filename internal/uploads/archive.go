package uploads

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver keeps a copy of accepted uploads.
type Archiver interface {
	Archive(ctx context.Context, projectID string, f *File) (key string, err error)
}

// PutObjectAPI is the slice of the S3 client the archiver needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver stores uploads under ifc/{project}/{sha256}.ifc. Identical files
// map to the same key.
type S3Archiver struct {
	client PutObjectAPI
	bucket string
}

func NewS3Archiver(client PutObjectAPI, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// NewS3ArchiverFromEnv builds the S3 client from the default credential chain.
func NewS3ArchiverFromEnv(ctx context.Context, region, bucket string) (*S3Archiver, error) {
	var opts []func(*awscfg.LoadOptions) error
	if region != "" {
		opts = append(opts, awscfg.WithRegion(region))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config load: %w", err)
	}
	return NewS3Archiver(s3.NewFromConfig(cfg), bucket), nil
}

func ArchiveKey(projectID, sum string) string {
	return fmt.Sprintf("ifc/%s/%s%s", projectID, sum, ifcExt)
}

func (a *S3Archiver) Archive(ctx context.Context, projectID string, f *File) (string, error) {
	key := ArchiveKey(projectID, f.SHA256)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(f.Content),
		ContentLength: aws.Int64(f.Size()),
		ContentType:   aws.String("application/x-step"),
		Metadata: map[string]string{
			"original-name": f.Name,
			"sha256":        f.SHA256,
		},
	})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	return key, nil
}
