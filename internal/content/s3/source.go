package s3

import (
	"context"

	"github.com/bornholm/masthead/internal/content"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Source reads the listing from a JSON object stored in a bucket.
type Source struct {
	client *minio.Client
	bucket string
	object string
}

// CategoriesWithJournals implements content.Source.
func (s *Source) CategoriesWithJournals(ctx context.Context) ([]content.Category, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer obj.Close()

	categories, err := content.Decode(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read object '%s/%s'", s.bucket, s.object)
	}

	return categories, nil
}

func NewSource(client *minio.Client, bucket string, object string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		object: object,
	}
}

var _ content.Source = &Source{}
