package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/content/testsuite"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
)

func TestSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping minio container test in short mode")
	}

	ctx := context.Background()

	container, err := tcminio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z")
	defer func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("could not terminate container: %+v", errors.WithStack(err))
		}
	}()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	endpoint, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	opts := &Options{
		Endpoint:  endpoint,
		AccessKey: container.Username,
		SecretKey: container.Password,
		Bucket:    "content",
		Object:    "listing.json",
	}

	source, err := content.New(Type, opts)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	client := source.(*Source).client

	if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := source.CategoriesWithJournals(ctx); err == nil {
		t.Errorf("err: expected error on missing object, got nil")
	}

	data, err := json.Marshal(testsuite.Listing())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	_, err = client.PutObject(ctx, opts.Bucket, opts.Object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	testsuite.TestSource(t, source)
}
