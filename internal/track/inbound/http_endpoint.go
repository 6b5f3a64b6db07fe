package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/D-Elbel/gpxshare/internal/pkg/pkgerror"
	"github.com/D-Elbel/gpxshare/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Save(ctx context.Context, r *http.Request) (any, error) {
	var req SaveRequest
	if r.Body != nil {
		if err := decodeJSONBody(r.Body, &req); err != nil {
			return nil, err
		}
	}

	result, err := h.uc.Save(ctx, req.GeoJSON)
	if err != nil {
		return nil, err
	}

	return SaveResponse{UUID: result.UUID}, nil
}

func (h *HTTPEndpoint) Get(ctx context.Context, r *http.Request) (any, error) {
	uuid := strings.TrimSpace(pkgrouter.GetParam(ctx, "uuid"))

	data, err := h.uc.Fetch(ctx, uuid)
	if err != nil {
		return nil, err
	}

	return DocumentResponse{doc: data}, nil
}

func (h *HTTPEndpoint) Convert(ctx context.Context, r *http.Request) (any, error) {
	reader, cleanup, err := extractGPXReader(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := h.uc.Convert(ctx, reader)
	if err != nil {
		return nil, err
	}

	return DocumentResponse{doc: result.Document}, nil
}

func (h *HTTPEndpoint) Recents(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Recents(ctx)
	if err != nil {
		return nil, err
	}

	return NewRecentsResponse(result.Recents), nil
}

// decodeJSONBody maps every malformed request body to the same client error
// the save contract promises, so callers see one stable message.
func decodeJSONBody(body io.Reader, req *SaveRequest) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return pkgerror.NewServer("Failed to save GeoJSON", err)
	}

	if len(data) == 0 {
		return pkgerror.NewInvalidInput("Missing geojson payload", errors.New("empty request body"))
	}

	if err := json.Unmarshal(data, req); err != nil {
		return pkgerror.NewInvalidInput("Missing geojson payload", err)
	}

	return nil
}

// extractGPXReader accepts either a raw GPX body or a multipart form with a
// "file" part.
func extractGPXReader(r *http.Request) (io.ReadCloser, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartFile(r)
		}
	}

	if r.Body == nil {
		return nil, func() {}, pkgerror.NewInvalidInput("Missing GPX payload", errors.New("empty request body"))
	}

	return r.Body, func() {}, nil
}

func extractMultipartFile(r *http.Request) (io.ReadCloser, func(), error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, func() {}, pkgerror.NewInvalidInput("Invalid GPX file", err)
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, func() {}, pkgerror.NewInvalidInput("Missing GPX payload", errors.New("file part is required"))
			}
			return nil, func() {}, pkgerror.NewInvalidInput("Invalid GPX file", err)
		}

		if part.FormName() == "file" {
			return part, func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}
