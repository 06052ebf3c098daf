package templates

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

//go:embed content/*.md content/manifest.yaml
var embedded embed.FS

// Source reads template files by name. Missing files must yield an error
// wrapping fs.ErrNotExist.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	String() string
}

// FSSource reads templates from a file system.
type FSSource struct {
	FS    fs.FS
	Label string
}

// ReadFile implements Source.
func (s FSSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	return fs.ReadFile(s.FS, name)
}

func (s FSSource) String() string {
	return s.Label
}

// EmbeddedSource returns the templates compiled into the binary.
func EmbeddedSource() FSSource {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		panic(fmt.Sprintf("embedded templates unavailable: %v", err))
	}
	return FSSource{FS: sub, Label: "embedded"}
}

// DirSource reads templates from a local directory.
func DirSource(dir string) FSSource {
	return FSSource{FS: os.DirFS(dir), Label: "dir:" + dir}
}

// S3Source reads templates from objects under Prefix in Bucket.
type S3Source struct {
	Client s3iface.S3API
	Bucket string
	Prefix string
}

// NewS3Source opens an S3 client using the shared AWS configuration.
func NewS3Source(region, bucket, prefix string) (*S3Source, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	cfg := &aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	return &S3Source{Client: s3.New(sess, cfg), Bucket: bucket, Prefix: prefix}, nil
}

// ReadFile implements Source.
func (s *S3Source) ReadFile(ctx context.Context, name string) ([]byte, error) {
	key := path.Join(s.Prefix, name)
	out, err := s.Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.Bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.Bucket, key, err)
	}
	return data, nil
}

func (s *S3Source) String() string {
	return "s3://" + path.Join(s.Bucket, s.Prefix)
}
