package minio_test

import (
	"accountant-assistant/internal/adapters/transport/minio"
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	minio7 "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAccessKey = "minioadmin"
	testSecretKey = "minioadmin"
	testBucket    = "test-uploads"
)

func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     testAccessKey,
			"MINIO_ROOT_PASSWORD": testSecretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000"),
	}
	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := minioContainer.Host(ctx)
	require.NoError(t, err)

	port, err := minioContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	cleanup := func() {
		if err := minioContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	time.Sleep(500 * time.Millisecond) // wait for container to be up
	return endpoint, cleanup
}

func createAdapter(t *testing.T, endpoint string, ctx context.Context) *minio.Adapter {
	t.Helper()
	cfg := config.MinioConfig{
		Endpoint:                  endpoint,
		AccessKey:                 testAccessKey,
		SecretKey:                 testSecretKey,
		BucketName:                testBucket,
		UseSSL:                    false,
		DownloadSignedURLDuration: 15 * time.Minute,
	}

	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	adapter, err := minio.NewAdapter(ctx, cfg, discardLogger)

	require.NoError(t, err)
	require.NotNil(t, adapter)

	return adapter
}

func TestAdapter_Upload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	adapter := createAdapter(t, endpoint, ctx)

	surface, err := domain.LookupSurface(domain.SurfaceReceipts)
	require.NoError(t, err)

	t.Run("stores the file and returns a downloadable url", func(t *testing.T) {
		// Arrange
		content := "%PDF-1.4 receipt"
		file := domain.File{Name: "receipt.pdf", SizeBytes: int64(len(content)), MimeType: "application/pdf", Content: []byte(content)}

		// Act
		result, err := adapter.Upload(ctx, surface, file)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Mock)
		key := result.Payload["key"].(string)
		assert.True(t, strings.HasPrefix(key, "receipts/"))
		assert.True(t, strings.HasSuffix(key, "/receipt.pdf"))
		assert.NotEmpty(t, result.Payload["etag"])

		resp, err := http.Get(result.Payload["url"].(string))
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, content, string(body))

		client, err := minio7.New(endpoint, &minio7.Options{Creds: credentials.NewStaticV4(testAccessKey, testSecretKey, "")})
		require.NoError(t, err)
		require.NoError(t, client.RemoveObject(ctx, testBucket, key, minio7.RemoveObjectOptions{}))
	})

	t.Run("cancelled upload is a failure", func(t *testing.T) {
		// Arrange
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		file := domain.File{Name: "late.png", MimeType: "image/png", Content: []byte("png")}

		// Act
		result, err := adapter.Upload(cancelled, surface, file)

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrUploadFailed)
	})
}

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("7b0cbd43-1d0a-45a6-a1a4-6f8c4a1a4a55")

	assert.Equal(t, "statements/7b0cbd43-1d0a-45a6-a1a4-6f8c4a1a4a55/march.csv", minio.ObjectKey(domain.SurfaceStatements, id, "march.csv"))
	assert.Equal(t, "receipts/7b0cbd43-1d0a-45a6-a1a4-6f8c4a1a4a55/evil.pdf", minio.ObjectKey(domain.SurfaceReceipts, id, "../../evil.pdf"))
}
