package handler

import (
	"log/slog"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/clinic"
	"github.com/omarantar7/dentalcare-admin/pkg/httputil"
)

// SessionsHandler proxies treatment session and lab referral operations.
type SessionsHandler struct {
	logger *slog.Logger
}

// NewSessionsHandler creates a new treatment sessions HTTP handler.
func NewSessionsHandler(logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{logger: logger}
}

// TreatmentSessionRequest is the JSON request body for creating or
// updating a treatment session.
type TreatmentSessionRequest struct {
	Date           string  `json:"date" validate:"required"`
	Description    string  `json:"description" validate:"required,min=1,max=1000"`
	Price          float64 `json:"price" validate:"gte=0"`
	Notes          string  `json:"notes" validate:"omitempty,max=2000"`
	PaymentAmount  float64 `json:"payment_amount" validate:"gte=0"`
	VisitedLab     bool    `json:"visited_lab"`
	LabID          int64   `json:"lab_id" validate:"omitempty,gte=1"`
	LabWorkType    string  `json:"lab_work_type" validate:"omitempty,max=255"`
	LabCost        float64 `json:"lab_cost" validate:"gte=0"`
	LabDescription string  `json:"lab_description" validate:"omitempty,max=1000"`
}

func (req TreatmentSessionRequest) toInput() clinic.TreatmentSessionInput {
	return clinic.TreatmentSessionInput{
		Date:           req.Date,
		Description:    req.Description,
		Price:          req.Price,
		Notes:          req.Notes,
		PaymentAmount:  req.PaymentAmount,
		VisitedLab:     req.VisitedLab,
		LabID:          req.LabID,
		LabWorkType:    req.LabWorkType,
		LabCost:        req.LabCost,
		LabDescription: req.LabDescription,
	}
}

// Create handles POST /api/patients/{id}/sessions.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	patientID, err := urlID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req TreatmentSessionRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	ts, err := sc.Client.CreateTreatmentSession(r.Context(), patientID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: ts})
}

// Update handles PUT /api/patients/{id}/sessions/{sessionID}.
func (h *SessionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	patientID, err := urlID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	sessionID, err := urlID(r, "sessionID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req TreatmentSessionRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	ts, err := sc.Client.UpdateTreatmentSession(r.Context(), patientID, sessionID, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ts})
}

// Delete handles DELETE /api/patients/{id}/sessions/{sessionID}.
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	patientID, err := urlID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	sessionID, err := urlID(r, "sessionID")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := sc.Client.DeleteTreatmentSession(r.Context(), patientID, sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLabs handles GET /api/labs.
func (h *SessionsHandler) ListLabs(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	labs, err := sc.Client.ListLabs(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: labs})
}
