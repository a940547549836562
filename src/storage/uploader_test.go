package storage_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"memo-notes/src/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records every uploaded object in memory
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.StringValue(input.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

type staticSnapshot map[string][]byte

func (s staticSnapshot) Snapshot() (map[string][]byte, error) {
	return s, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.FatalLevel) // テスト時は静かに
	return l
}

func testConfig() *storage.S3Config {
	return &storage.S3Config{
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Region:          "us-east-1",
		Bucket:          "test-bucket",
	}
}

func TestNewUploader(t *testing.T) {
	t.Run("MinIO用の設定", func(t *testing.T) {
		uploader, err := storage.NewUploader(testConfig(), testLogger())
		assert.NoError(t, err)
		assert.NotNil(t, uploader)
	})

	t.Run("AWS S3用の設定", func(t *testing.T) {
		cfg := testConfig()
		cfg.Endpoint = "" // 空の場合はAWS S3
		cfg.UseSSL = true

		uploader, err := storage.NewUploader(cfg, testLogger())
		assert.NoError(t, err)
		assert.NotNil(t, uploader)
	})
}

func TestUploadOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "app_old.log")
	current := filepath.Join(dir, "app_current.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, current, other} {
		require.NoError(t, os.WriteFile(path, []byte("line\n"), 0644))
	}
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(current, past, past))

	fake := newFakeS3()
	uploader := storage.NewUploaderWithClient(fake, testConfig(), testLogger())

	require.NoError(t, uploader.UploadOldLogs(context.Background(), dir, 24*time.Hour, current))

	assert.Equal(t, []string{"logs/app_old.log"}, fake.keys())
	assert.NoFileExists(t, old)
	assert.FileExists(t, current)
	assert.FileExists(t, other)
}

func TestUploadOldLogs_MissingDirectory(t *testing.T) {
	uploader := storage.NewUploaderWithClient(newFakeS3(), testConfig(), testLogger())

	err := uploader.UploadOldLogs(context.Background(), filepath.Join(t.TempDir(), "missing"), time.Hour, "")
	assert.Error(t, err)
}

func TestUploadSnapshot(t *testing.T) {
	t.Run("全コレクションをアップロード", func(t *testing.T) {
		fake := newFakeS3()
		uploader := storage.NewUploaderWithClient(fake, testConfig(), testLogger())

		err := uploader.UploadSnapshot(context.Background(), staticSnapshot{
			"memos": []byte("[]"),
			"tags":  []byte(`[{"id":"1"}]`),
		})
		require.NoError(t, err)

		keys := fake.keys()
		require.Len(t, keys, 2)
		for _, key := range keys {
			assert.Regexp(t, `^snapshots/\d{8}T\d{6}Z/(memos|tags)\.json$`, key)
		}
	})

	t.Run("アップロード失敗", func(t *testing.T) {
		fake := newFakeS3()
		fake.err = errors.New("access denied")
		uploader := storage.NewUploaderWithClient(fake, testConfig(), testLogger())

		err := uploader.UploadSnapshot(context.Background(), staticSnapshot{"memos": []byte("[]")})
		assert.ErrorIs(t, err, fake.err)
	})
}

func TestStartPeriodic(t *testing.T) {
	uploader := storage.NewUploaderWithClient(newFakeS3(), testConfig(), testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	runs := 0
	uploader.StartPeriodic(ctx, "test", 10*time.Millisecond, func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		runs++
		return nil
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()
}

func TestStartPeriodic_NonPositiveInterval(t *testing.T) {
	uploader := storage.NewUploaderWithClient(newFakeS3(), testConfig(), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	runs := 0
	task := func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		runs++
		return nil
	}

	for _, interval := range []time.Duration{0, -time.Hour} {
		assert.NotPanics(t, func() {
			uploader.StartPeriodic(ctx, "logs", interval, task)
		})
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, runs)
}
