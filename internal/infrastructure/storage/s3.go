package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config parámetros del bucket (AWS S3 o MinIO).
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // opcional, p. ej. MinIO
	PathStyle       bool
	AccessKeyID     string // opcional: si no, cadena de credenciales por defecto
	SecretAccessKey string
}

// S3Source planilla guardada como objeto en un bucket.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source crea el cliente S3 a partir de la configuración.
func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3: bucket y key son obligatorios")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Open descarga el objeto. El llamador cierra el cuerpo.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, "", fmt.Errorf("s3: obtener %s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, path.Base(s.key), nil
}
