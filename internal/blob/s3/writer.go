package s3blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// minPartSize is the S3 minimum part size for multipart uploads (5 MiB).
// Payloads at or below it go out as a single PutObject.
const minPartSize int64 = 5 * 1024 * 1024

// Writer uploads archive objects to the client's configured bucket. It picks
// the upload strategy from the payload size: small archives use a single
// PutObject, anything larger goes through the concurrent multipart manager.
type Writer struct {
	client   *s3.Client
	bucket   string
	uploader *manager.Uploader
}

func NewWriter(c *Client) *Writer {
	client := c.S3()
	return &Writer{
		client: client,
		bucket: c.Bucket(),
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = minPartSize
		}),
	}
}

// Put uploads data under key with the given content type.
func (w *Writer) Put(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if int64(len(data)) > minPartSize {
		if _, err := w.uploader.Upload(ctx, input); err != nil {
			return fmt.Errorf("s3blob: multipart upload %s: %w", key, err)
		}
		return nil
	}

	if _, err := w.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3blob: put object %s: %w", key, err)
	}
	return nil
}
