package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/payment-assist/internal/delivery"
	"github.com/ignite/payment-assist/internal/pipeline"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	pipeline *pipeline.Pipeline
	sender   *delivery.SESSender
}

// NewHandlers creates a new Handlers instance
func NewHandlers(p *pipeline.Pipeline, sender *delivery.SESSender) *Handlers {
	return &Handlers{pipeline: p, sender: sender}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondPipelineError maps the pipeline's error taxonomy onto HTTP status
// codes: NotFound → 404, NotReady → 503, everything else → sanitized 500.
func respondPipelineError(w http.ResponseWriter, customerID string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error":       fmt.Sprintf("Customer %s not found", customerID),
			"customer_id": customerID,
		})
	case errors.Is(err, pipeline.ErrNotReady):
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":       "Service not ready: classifier artifacts failed to load",
			"customer_id": customerID,
		})
	case errors.Is(err, pipeline.ErrUnknownCode):
		respondSafeError(w, http.StatusInternalServerError, err,
			"Classification produced an unknown segment code")
	default:
		respondSafeError(w, http.StatusInternalServerError, err,
			"Classification failed")
	}
}

// classifyRequest is the POST body for /api/classify.
type classifyRequest struct {
	CustomerID string `json:"customer_id"`
}

// generateRequest is the POST body for /api/generate.
type generateRequest struct {
	CustomerID string   `json:"customer_id"`
	AmountDue  *float64 `json:"amount_due"`
	DueDate    string   `json:"due_date"`
	Send       bool     `json:"send"`
	Recipient  string   `json:"recipient"`
}

// generateResponse is the /api/generate response envelope.
type generateResponse struct {
	CustomerID  string               `json:"customer_id"`
	Segment     string               `json:"segment"`
	Email       interface{}          `json:"email"`
	MessageID   string               `json:"message_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Delivery    *delivery.SendResult `json:"delivery,omitempty"`
}

// ClassifyByID handles GET /api/classify/{customerID}.
func (h *Handlers) ClassifyByID(w http.ResponseWriter, r *http.Request) {
	h.classify(w, r, chi.URLParam(r, "customerID"))
}

// Classify handles POST /api/classify.
func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		respondError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	h.classify(w, r, req.CustomerID)
}

func (h *Handlers) classify(w http.ResponseWriter, r *http.Request, customerID string) {
	if customerID == "" {
		respondError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	pred, err := h.pipeline.Classify(r.Context(), customerID)
	if err != nil {
		respondPipelineError(w, customerID, err)
		return
	}

	respondJSON(w, http.StatusOK, pred)
}

// GenerateByID handles GET /api/generate/{customerID}?amount_due=&due_date=.
func (h *Handlers) GenerateByID(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	amountStr := r.URL.Query().Get("amount_due")
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "amount_due must be a number")
		return
	}

	h.generate(w, r, generateRequest{
		CustomerID: customerID,
		AmountDue:  &amount,
		DueDate:    r.URL.Query().Get("due_date"),
	})
}

// Generate handles POST /api/generate.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	h.generate(w, r, req)
}

func (h *Handlers) generate(w http.ResponseWriter, r *http.Request, req generateRequest) {
	if req.CustomerID == "" {
		respondError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if req.AmountDue == nil {
		respondError(w, http.StatusBadRequest, "amount_due is required")
		return
	}
	// Negative amounts are permitted (credits); only non-finite values are
	// rejected. due_date gets a presence check only.
	if math.IsNaN(*req.AmountDue) || math.IsInf(*req.AmountDue, 0) {
		respondError(w, http.StatusBadRequest, "amount_due must be finite")
		return
	}
	if req.DueDate == "" {
		respondError(w, http.StatusBadRequest, "due_date is required")
		return
	}

	result, err := h.pipeline.Generate(r.Context(), req.CustomerID, *req.AmountDue, req.DueDate)
	if err != nil {
		respondPipelineError(w, req.CustomerID, err)
		return
	}

	resp := generateResponse{
		CustomerID:  result.CustomerID,
		Segment:     result.Segment,
		Email:       result.Email,
		MessageID:   uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
	}

	if req.Send {
		if !h.sender.Enabled() {
			respondError(w, http.StatusServiceUnavailable, "Email delivery is not configured")
			return
		}
		sent, err := h.sender.Send(r.Context(), req.Recipient, result.Email)
		if err != nil {
			respondSafeError(w, http.StatusBadGateway, err, "Email delivery failed")
			return
		}
		resp.Delivery = sent
	}

	respondJSON(w, http.StatusOK, resp)
}
