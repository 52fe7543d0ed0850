package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Brownie44l1/freshness-api/internal/prediction"
	"github.com/Brownie44l1/freshness-api/internal/status"
)

// Predictor serves a single prediction.
type Predictor interface {
	Predict(ctx context.Context, req prediction.Request) (prediction.Result, error)
}

// StatusReporter backs the two health endpoints.
type StatusReporter interface {
	Liveness() status.Liveness
	Detail() status.Detail
}

type Handler struct {
	predictor      Predictor
	reporter       StatusReporter
	maxUploadBytes int64
	logger         *log.Logger
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func NewHandler(predictor Predictor, reporter StatusReporter, maxUploadBytes int64, logger *log.Logger) *Handler {
	return &Handler{
		predictor:      predictor,
		reporter:       reporter,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reporter.Liveness())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reporter.Detail())
}

// Predict accepts a multipart upload with the image in field "file".
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithField("request_id", RequestID(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "Upload exceeds the maximum allowed size")
			return
		}
		writeDetail(w, http.StatusUnprocessableEntity, "Request must be multipart/form-data with a 'file' field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "No file provided. Use 'file' as the form field name")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.WithError(err).Error("Failed to read upload")
		writeDetail(w, http.StatusInternalServerError, (&prediction.ProcessingError{Err: err}).Error())
		return
	}

	logger.WithFields(log.Fields{
		"filename": header.Filename,
		"size":     header.Size,
	}).Debug("Received file")

	result, err := h.predictor.Predict(r.Context(), prediction.Request{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	})
	if err != nil {
		var perr *prediction.ProcessingError
		switch {
		case errors.Is(err, prediction.ErrInvalidInput):
			writeDetail(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &perr):
			logger.WithError(err).Error("Prediction error")
			writeDetail(w, http.StatusInternalServerError, perr.Error())
		default:
			logger.WithError(err).Error("Prediction error")
			writeDetail(w, http.StatusInternalServerError, (&prediction.ProcessingError{Err: err}).Error())
		}
		return
	}

	logger.WithFields(log.Fields{
		"days_remaining": result.DaysRemaining,
		"demo_mode":      result.DemoMode,
	}).Info("Prediction served")
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorResponse{Detail: detail})
}
