package upload_test

import (
	"accountant-assistant/internal/adapters/handlers/http/chi"
	upload3 "accountant-assistant/internal/adapters/handlers/http/chi/v1/upload"
	"accountant-assistant/internal/core/port"
	"accountant-assistant/internal/core/service/upload"
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	http2 "net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type part struct {
	field       string
	filename    string
	contentType string
	content     string
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		if p.contentType != "" {
			header.Set("Content-Type", p.contentType)
		}
		w, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func newRouter(maxUploadBytes int64, sessions ...*upload.MockUploadSessionService) http2.Handler {
	services := make([]port.UploadSessionService, 0, len(sessions))
	for _, s := range sessions {
		services = append(services, s)
	}
	handler := upload3.NewUploadHandlerV1(upload.NewSessionRegistry(services...), nil, discardLogger, maxUploadBytes)
	return chi.NewRouter(discardLogger, handler, "")
}
