package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/samber/lo"

	"pneumo-bot/internal/domain/entity"
)

// Diagnoser: сценарий диагностики, который обслуживает API.
type Diagnoser interface {
	RunDiagnosis(ctx context.Context, raw []byte) (*entity.DiagnosticReport, error)
	ExplainerName() string
}

// UserCounter отдаёт число пользователей чата для /health.
type UserCounter interface {
	ActiveUsers(ctx context.Context) (int, error)
}

// ModelStatus сообщает, готов ли классификатор.
type ModelStatus interface {
	Ready() bool
}

type Handler struct {
	diagnoser      Diagnoser
	users          UserCounter
	model          ModelStatus
	maxUploadBytes int64
	log            zerolog.Logger
}

func NewHandler(diagnoser Diagnoser, users UserCounter, model ModelStatus, maxUploadBytes int64, log zerolog.Logger) *Handler {
	return &Handler{
		diagnoser:      diagnoser,
		users:          users,
		model:          model,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "http").Logger(),
	}
}

// Routes возвращает обработчик со всеми маршрутами и middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /diagnose", h.Diagnose)

	var handler http.Handler = mux
	handler = enableCORS(handler)
	handler = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	})(handler)
	handler = hlog.RequestIDHandler("request_id", "X-Request-Id")(handler)
	handler = hlog.NewHandler(h.log)(handler)
	return handler
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Explainer   string `json:"explainer"`
	ChatUsers   int    `json:"chat_users"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "healthy",
		ModelLoaded: h.model != nil && h.model.Ready(),
		Explainer:   h.diagnoser.ExplainerName(),
	}
	status := http.StatusOK
	if !resp.ModelLoaded {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if h.users != nil {
		if n, err := h.users.ActiveUsers(r.Context()); err == nil {
			resp.ChatUsers = n
		}
	}
	writeJSON(w, status, resp)
}

// Diagnose принимает снимок полем формы "image" или сырым телом запроса.
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	raw, err := h.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Image is larger than %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.diagnoser.RunDiagnosis(r.Context(), raw)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, "Invalid image. Supported formats: JPEG, PNG")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("Diagnosis failed")
		writeError(w, http.StatusInternalServerError, "Diagnosis failed")
		return
	}

	writeJSON(w, http.StatusOK, newReportResponse(report))
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, errors.New("failed to parse form")
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("no image file provided, use 'image' as the form field name")
		}
		defer file.Close()

		hlog.FromRequest(r).Debug().Str("filename", header.Filename).Int64("size", header.Size).Msg("Received file")
		return io.ReadAll(file)
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty request body")
	}
	return raw, nil
}

type classificationResponse struct {
	Label             string             `json:"label"`
	ClassIndex        int                `json:"class_index"`
	ConfidencePercent float64            `json:"confidence_percent"`
	Probabilities     map[string]float64 `json:"probabilities"`
}

type explanationResponse struct {
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
}

type reportResponse struct {
	ID             string                 `json:"id"`
	CreatedAt      time.Time              `json:"created_at"`
	Classification classificationResponse `json:"classification"`
	Explanation    explanationResponse    `json:"explanation"`
	Disclaimer     string                 `json:"disclaimer"`
}

func newReportResponse(report *entity.DiagnosticReport) reportResponse {
	c := report.Classification
	return reportResponse{
		ID:        report.ID,
		CreatedAt: report.CreatedAt,
		Classification: classificationResponse{
			Label:             c.Label.String(),
			ClassIndex:        int(c.Label),
			ConfidencePercent: c.ConfidencePercent,
			Probabilities: lo.SliceToMap(entity.Labels(), func(l entity.Label) (string, float64) {
				return l.String(), c.Probability(l)
			}),
		},
		Explanation: explanationResponse{
			Text:      report.Explanation.Text,
			Succeeded: report.Explanation.Succeeded,
		},
		Disclaimer: entity.Disclaimer,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
