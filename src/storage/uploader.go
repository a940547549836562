package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
)

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// ObjectPutter is the part of the S3 API the uploader needs
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// SnapshotSource provides encoded collections keyed by name
type SnapshotSource interface {
	Snapshot() (map[string][]byte, error)
}

// Uploader ships log files and record store snapshots to S3 compatible storage
type Uploader struct {
	client ObjectPutter
	config *S3Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewUploader S3アップローダーを作成
func NewUploader(config *S3Config, logger *logrus.Logger) (*Uploader, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.SecretAccessKey, ""),
		DisableSSL:       aws.Bool(!config.UseSSL),
		S3ForcePathStyle: aws.Bool(true), // MinIOなどのS3互換ストレージ用
	}

	// エンドポイントが指定されている場合（MinIOなど）
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("AWSセッションの作成に失敗: %w", err)
	}

	return NewUploaderWithClient(s3.New(sess), config, logger), nil
}

// NewUploaderWithClient creates an uploader over an existing client
func NewUploaderWithClient(client ObjectPutter, config *S3Config, logger *logrus.Logger) *Uploader {
	return &Uploader{
		client: client,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

func (u *Uploader) put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]*string{
			"upload-time": aws.String(u.now().Format(time.RFC3339)),
			"source":      aws.String("memo-notes"),
		},
	})
	if err != nil {
		return fmt.Errorf("S3アップロードに失敗 (%s): %w", key, err)
	}
	return nil
}

// UploadLogFile ログファイルをS3にアップロード
func (u *Uploader) UploadLogFile(ctx context.Context, filePath string) error {
	body, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}

	fileName := filepath.Base(filePath)
	objectKey := "logs/" + fileName
	if err := u.put(ctx, objectKey, "text/plain", body); err != nil {
		return err
	}

	u.logger.WithFields(logrus.Fields{
		"file":   fileName,
		"bucket": u.config.Bucket,
		"key":    objectKey,
	}).Info("ログファイルをS3にアップロードしました")
	return nil
}

// UploadOldLogs uploads and removes the .log files in logDir older than
// maxAge. The file named skip (the active log) is left alone.
func (u *Uploader) UploadOldLogs(ctx context.Context, logDir string, maxAge time.Duration, skip string) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("ログディレクトリの読み取りに失敗: %w", err)
	}

	cutoffTime := u.now().Add(-maxAge)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		filePath := filepath.Join(logDir, entry.Name())
		if skip != "" && filepath.Clean(filePath) == filepath.Clean(skip) {
			continue
		}

		fileInfo, err := entry.Info()
		if err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ファイル情報の取得に失敗")
			continue
		}
		if !fileInfo.ModTime().Before(cutoffTime) {
			continue
		}

		if err := u.UploadLogFile(ctx, filePath); err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ログファイルのアップロードに失敗")
			continue
		}

		if err := os.Remove(filePath); err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ローカルファイルの削除に失敗")
		}
	}

	return nil
}

// UploadSnapshot uploads every collection of src under
// snapshots/<timestamp>/<name>.json
func (u *Uploader) UploadSnapshot(ctx context.Context, src SnapshotSource) error {
	snapshot, err := src.Snapshot()
	if err != nil {
		return fmt.Errorf("スナップショットの作成に失敗: %w", err)
	}

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	prefix := "snapshots/" + u.now().UTC().Format("20060102T150405Z")
	for _, name := range names {
		if err := u.put(ctx, prefix+"/"+name+".json", "application/json", snapshot[name]); err != nil {
			return err
		}
	}

	u.logger.WithFields(logrus.Fields{
		"bucket":      u.config.Bucket,
		"prefix":      prefix,
		"collections": len(names),
	}).Info("スナップショットをS3にアップロードしました")
	return nil
}

// StartPeriodic runs task every interval until ctx is cancelled. A
// non-positive interval starts nothing.
func (u *Uploader) StartPeriodic(ctx context.Context, name string, interval time.Duration, task func(ctx context.Context) error) {
	if interval <= 0 {
		u.logger.WithFields(logrus.Fields{
			"task":     name,
			"interval": interval,
		}).Warn("間隔が不正なため定期アップロードを開始しません")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := task(ctx); err != nil {
					u.logger.WithError(err).WithField("task", name).Error("定期アップロードに失敗")
				}
			}
		}
	}()

	u.logger.WithFields(logrus.Fields{
		"task":     name,
		"interval": interval,
	}).Info("定期的なアップロードを開始しました")
}
