package s3

import (
	"github.com/bornholm/masthead/internal/content"
	"github.com/go-viper/mapstructure/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const Type content.Type = "s3"

func init() {
	content.Register(Type, CreateSourceFromOptions)
}

type Options struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"accessKey" yaml:"accessKey"`
	SecretKey string `mapstructure:"secretKey" yaml:"secretKey"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Object    string `mapstructure:"object" yaml:"object"`
	Region    string `mapstructure:"region" yaml:"region"`
	Secure    bool   `mapstructure:"secure" yaml:"secure"`
}

func CreateSourceFromOptions(options any) (content.Source, error) {
	opts := Options{
		Object: "journal-categories.json",
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not create '%s' content source options decoder", Type)
	}

	if err := decoder.Decode(options); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' content source options", Type)
	}

	if opts.Bucket == "" {
		return nil, errors.Errorf("'%s' content source requires a bucket", Type)
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not create '%s' client", Type)
	}

	return NewSource(client, opts.Bucket, opts.Object), nil
}
