package upload

import (
	"accountant-assistant/internal/adapters/handlers/view"
	"accountant-assistant/internal/core/domain"
	uploadservice "accountant-assistant/internal/core/service/upload"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

// multipartMemory is the part of a multipart body kept in memory, the rest spills to disk
const multipartMemory = 8 << 20

// V1AddFilesResponse is the response to a file submission
type V1AddFilesResponse struct {
	TaskIDs  []uuid.UUID   `json:"task_ids"`
	Rejected []string      `json:"rejected"`
	Snapshot view.Snapshot `json:"snapshot"`
}

// AddFilesV1 enqueues every "file" part of a multipart request
func (h *HandlerV1) AddFilesV1(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	surface, err := domain.LookupSurface(session.Surface())
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, fmt.Sprintf("request larger than %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Error("error parsing multipart upload", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Error("error removing multipart temp files", "error", err)
		}
	}()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		http.Error(w, domain.ErrNoFiles.Error()+": provide at least one file", http.StatusBadRequest)
		return
	}

	files := make([]domain.File, 0, len(headers))
	for _, header := range headers {
		file, err := readFile(header)
		if err != nil {
			h.logger.Error("error reading uploaded file", "file", header.Filename, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		files = append(files, file)
	}

	accepted, rejections := uploadservice.FilterAccepted(surface, files)
	rejected := make([]string, 0, len(rejections))
	for _, rejection := range rejections {
		rejected = append(rejected, rejection.Error())
	}
	if len(accepted) == 0 {
		h.logger.Warn("no accepted file", "surface", surface.Name, "rejected", len(rejected))
		h.writeJSON(w, http.StatusUnsupportedMediaType, V1AddFilesResponse{
			TaskIDs:  []uuid.UUID{},
			Rejected: rejected,
			Snapshot: view.NewSnapshot(session.Snapshot()),
		})
		return
	}

	ids := session.AddFiles(r.Context(), accepted)

	h.writeJSON(w, http.StatusAccepted, V1AddFilesResponse{
		TaskIDs:  ids,
		Rejected: rejected,
		Snapshot: view.NewSnapshot(session.Snapshot()),
	})
}

func readFile(header *multipart.FileHeader) (domain.File, error) {
	f, err := header.Open()
	if err != nil {
		return domain.File{}, fmt.Errorf("could not open %s: %w", header.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return domain.File{}, fmt.Errorf("could not read %s: %w", header.Filename, err)
	}

	return domain.File{
		Name:      header.Filename,
		SizeBytes: int64(len(content)),
		MimeType:  uploadservice.DetectMimeType(header.Filename, header.Header.Get("Content-Type")),
		Content:   content,
	}, nil
}
