package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ksenchenko/apportionment/internal/apportion"
	"github.com/ksenchenko/apportionment/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// SeatDefaults carries the seat targets applied when a request omits them.
type SeatDefaults struct {
	TotalSeats int
	BaseSeats  int
}

// Handler wires apportioner and storage dependencies into HTTP handlers.
type Handler struct {
	apportioner apportion.Apportioner
	storage     storage.Storage
	defaults    SeatDefaults

	clock func() time.Time

	mu                   sync.RWMutex
	populationsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(apportioner apportion.Apportioner, store storage.Storage, defaults SeatDefaults, opts ...HandlerOption) *Handler {
	h := &Handler{
		apportioner: apportioner,
		storage:     store,
		defaults:    defaults,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.populationsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPopulations(w http.ResponseWriter, r *http.Request) {
	_ = r
	populations, err := h.storage.GetPopulations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := populationsResponse{
		Populations: populations,
		UpdatedAt:   h.currentPopulationsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutPopulations(w http.ResponseWriter, r *http.Request) {
	var req populationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Populations) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid populations", "populations must contain at least one entity")
		return
	}

	if err := h.storage.SetPopulations(req.Populations); err != nil {
		if errors.Is(err, storage.ErrInvalidPopulations) {
			writeError(w, http.StatusBadRequest, "Invalid populations", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markPopulationsUpdated()

	populations, err := h.storage.GetPopulations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := populationsResponse{
		Populations: populations,
		UpdatedAt:   h.currentPopulationsUpdatedAt(),
		Message:     "Populations updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleApportion(w http.ResponseWriter, r *http.Request) {
	var req apportionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	totalSeats := h.defaults.TotalSeats
	if req.TotalSeats != 0 {
		if req.TotalSeats < 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", "totalSeats must be a positive integer")
			return
		}
		totalSeats = req.TotalSeats
	}

	baseSeats := h.defaults.BaseSeats
	if req.BaseSeats != nil {
		if *req.BaseSeats < 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", "baseSeats must be >= 0")
			return
		}
		baseSeats = *req.BaseSeats
	}

	populations := req.Populations
	if len(populations) == 0 {
		stored, err := h.storage.GetPopulations()
		if err != nil {
			writeInternalError(w, err)
			return
		}
		populations = stored
	}

	start := time.Now()
	seats, apportionErr := h.apportioner.Apportion(populations, totalSeats, baseSeats)
	elapsed := time.Since(start)

	if apportionErr != nil {
		switch {
		case errors.Is(apportionErr, apportion.ErrInvalidConfiguration):
			writeError(w, http.StatusBadRequest, "Invalid request", apportionErr.Error())
		case errors.Is(apportionErr, apportion.ErrInvalidPopulations):
			writeError(w, http.StatusBadRequest, "Invalid populations", apportionErr.Error())
		case errors.Is(apportionErr, apportion.ErrDegenerateInput):
			suggestion := "Provide at least one entity with a positive population, or lower totalSeats to the guaranteed base"
			writeError(w, http.StatusUnprocessableEntity, "Cannot award remaining seats", apportionErr.Error(), suggestion)
		default:
			writeInternalError(w, apportionErr)
		}
		return
	}

	reports, err := apportion.Summarize(populations, seats)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	alignedPopulations, alignedSeats, err := apportion.AlignColumns(populations, seats)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	entities := make([]entityReport, len(reports))
	for i, rep := range reports {
		entities[i] = entityReport{
			Index:              rep.Index,
			Population:         rep.Population,
			Seats:              rep.Seats,
			PopulationShare:    rep.PopulationShare,
			SeatShare:          rep.SeatShare,
			Overrepresentation: rep.Overrepresentation,
		}
	}

	resp := apportionResponse{
		TotalSeats:  totalSeats,
		BaseSeats:   baseSeats,
		Populations: populations,
		Seats:       seats,
		Entities:    entities,
		Display: displayColumns{
			Populations: alignedPopulations,
			Seats:       alignedSeats,
		},
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) currentPopulationsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.populationsUpdatedAt
}

func (h *Handler) markPopulationsUpdated() {
	h.mu.Lock()
	h.populationsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type populationsRequest struct {
	Populations []int64 `json:"populations"`
}

type apportionRequest struct {
	TotalSeats  int     `json:"totalSeats"`
	BaseSeats   *int    `json:"baseSeats"`
	Populations []int64 `json:"populations"`
}

type apportionResponse struct {
	TotalSeats        int            `json:"totalSeats"`
	BaseSeats         int            `json:"baseSeats"`
	Populations       []int64        `json:"populations"`
	Seats             []int          `json:"seats"`
	Entities          []entityReport `json:"entities"`
	Display           displayColumns `json:"display"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

type entityReport struct {
	Index              int     `json:"index"`
	Population         int64   `json:"population"`
	Seats              int     `json:"seats"`
	PopulationShare    float64 `json:"populationShare"`
	SeatShare          float64 `json:"seatShare"`
	Overrepresentation float64 `json:"overrepresentation"`
}

type displayColumns struct {
	Populations []string `json:"populations"`
	Seats       []string `json:"seats"`
}

type populationsResponse struct {
	Populations []int64   `json:"populations"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Message     string    `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
