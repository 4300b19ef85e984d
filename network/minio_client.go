package network

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/op/go-logging"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/logger"
)

var contentTypes = map[string]string{
	".csv":  "text/csv; charset=utf-8",
	".json": "application/json",
	".xml":  "application/xml",
}

// ArtifactUploader copies finished export artifacts to an S3 bucket.
// A file artifact becomes <prefix>/<file name>. A directory artifact
// becomes <prefix>/<dir name>/<file name> for each regular file in it.
type ArtifactUploader struct {
	Bucket string
	Prefix string
	client *minio.Client
	logger *logging.Logger
}

// NewArtifactUploader returns an uploader for bucket on the S3 endpoint
// host. Region is sent along so minio does not have to look it up.
func NewArtifactUploader(host, keyID, secretKey, region string, secure bool, bucket, prefix string, log *logging.Logger) (*ArtifactUploader, error) {
	client, err := minio.New(
		host,
		&minio.Options{
			Creds:  credentials.NewStaticV4(keyID, secretKey, ""),
			Secure: secure,
			Region: region,
		})
	if err != nil {
		return nil, fmt.Errorf("cannot create S3 client for %s: %w", host, err)
	}
	if log.IsEnabledFor(logging.DEBUG) {
		client.TraceOn(logger.NewTracer(log))
	}
	return &ArtifactUploader{
		Bucket: bucket,
		Prefix: prefix,
		client: client,
		logger: log,
	}, nil
}

// Upload sends the artifact at artifactPath and returns the object
// keys it created.
func (u *ArtifactUploader) Upload(ctx context.Context, artifactPath string) ([]string, error) {
	stat, err := os.Stat(artifactPath)
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		key := u.objectKey(filepath.Base(artifactPath))
		if err := u.putFile(ctx, key, artifactPath, stat.Size()); err != nil {
			return nil, err
		}
		return []string{key}, nil
	}
	entries, err := os.ReadDir(artifactPath)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return keys, err
		}
		key := u.objectKey(filepath.Base(artifactPath), entry.Name())
		if err := u.putFile(ctx, key, filepath.Join(artifactPath, entry.Name()), info.Size()); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (u *ArtifactUploader) putFile(ctx context.Context, key, filePath string, size int64) error {
	opts := minio.PutObjectOptions{
		ContentType: contentTypes[filepath.Ext(filePath)],
		Progress:    logger.NewUploadProgressLogger(u.logger, key, size),
	}
	if opts.ContentType == "" {
		opts.ContentType = "application/octet-stream"
	}
	info, err := u.client.FPutObject(ctx, u.Bucket, key, filePath, opts)
	if err != nil {
		return fmt.Errorf("upload of %s to s3://%s/%s failed: %w", filePath, u.Bucket, key, err)
	}
	u.logger.Infof("Uploaded %s to s3://%s/%s (%d bytes)", filePath, u.Bucket, key, info.Size)
	return nil
}

func (u *ArtifactUploader) objectKey(parts ...string) string {
	if u.Prefix != "" {
		parts = append([]string{u.Prefix}, parts...)
	}
	return path.Join(parts...)
}
