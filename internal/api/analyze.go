package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/aurascan/aurascan/internal/analysis"
	"github.com/aurascan/aurascan/internal/telemetry"
)

type analyzeJSONRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// handleAnalyze accepts a facial photo either as multipart/form-data
// (field "image" or "file") or as JSON with an imageBase64 data URL,
// runs it through the vision model and returns the report payload.
//
// When no vision credential is configured and simulation is enabled, a
// fixed demo payload is returned with HTTP 200 instead. That is the only
// place fabricated data can appear; upstream failures are never papered
// over.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	imageDataURL, err := readImageDataURL(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "image exceeds the upload size limit")
			return
		}
		writeError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	logger := log.With().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("image_digest", imageDigest(imageDataURL)).
		Logger()

	if !s.vision.Configured() && s.cfg.SimulateWhenUnconfigured {
		logger.Warn().Msg("vision credential not configured; returning simulated analysis")
		telemetry.Analyses.WithLabelValues("simulated").Inc()
		writeJSON(w, http.StatusOK, analysis.Simulated())
		return
	}

	result, err := s.vision.Analyze(r.Context(), imageDataURL)
	if err != nil {
		logger.Error().Err(err).Msg("vision analysis failed")
		telemetry.Analyses.WithLabelValues("error").Inc()
		writeFault(w, r, err)
		return
	}

	telemetry.Analyses.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, analysis.BuildReport(result))
}

// readImageDataURL extracts the uploaded image from either request shape
// and returns it as a base64 data URL, the form the vision provider
// consumes.
func readImageDataURL(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := formImage(r)
		if err != nil {
			return "", err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		if len(data) == 0 {
			return "", errors.New("uploaded image is empty")
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(data)
		}
		return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
	}

	var req analyzeJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errors.New("request body must be multipart form data or JSON")
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		return "", errors.New("image data is required")
	}
	if !strings.HasPrefix(req.ImageBase64, "data:image/") {
		return "", errors.New("imageBase64 must be an image data URL")
	}
	return req.ImageBase64, nil
}

func formImage(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	for _, field := range []string{"image", "file"} {
		file, header, err := r.FormFile(field)
		if err == nil {
			return file, header, nil
		}
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		return nil, nil, err
	}
	return nil, nil, errors.New("image data is required")
}

// imageDigest is a short content hash used only for log correlation.
func imageDigest(dataURL string) string {
	return strconv.FormatUint(xxhash.Sum64String(dataURL), 16)
}
