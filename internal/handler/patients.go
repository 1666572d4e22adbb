package handler

import (
	"log/slog"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/clinic"
	"github.com/omarantar7/dentalcare-admin/pkg/httputil"
)

// PatientsHandler proxies patient record operations to the clinic backend
// through the scope's authenticated client. A 401 from any of these calls
// tears down the scope's session as a side effect of the gateway codepath.
type PatientsHandler struct {
	logger *slog.Logger
}

// NewPatientsHandler creates a new patients HTTP handler.
func NewPatientsHandler(logger *slog.Logger) *PatientsHandler {
	return &PatientsHandler{logger: logger}
}

// PatientRequest is the JSON request body for creating or updating a
// patient record.
type PatientRequest struct {
	FullName       string `json:"full_name" validate:"required,min=1,max=255"`
	PhoneNumber    string `json:"phone_number" validate:"required,min=5,max=32"`
	Email          string `json:"email" validate:"omitempty,email"`
	BirthDate      string `json:"birth_date" validate:"omitempty"`
	Gender         string `json:"gender" validate:"omitempty,oneof=male female"`
	Address        string `json:"address" validate:"omitempty,max=500"`
	MedicalHistory string `json:"medical_history" validate:"omitempty"`
	Allergies      string `json:"allergies" validate:"omitempty"`
}

func (req PatientRequest) toInput() clinic.PatientInput {
	return clinic.PatientInput{
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		BirthDate:      req.BirthDate,
		Gender:         req.Gender,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
		Allergies:      req.Allergies,
	}
}

// List handles GET /api/patients.
func (h *PatientsHandler) List(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	patients, err := sc.Client.ListPatients(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: patients})
}

// Get handles GET /api/patients/{id}.
func (h *PatientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	patient, err := sc.Client.GetPatient(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: patient})
}

// Create handles POST /api/patients.
func (h *PatientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	var req PatientRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	patient, err := sc.Client.CreatePatient(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: patient})
}

// Update handles PUT /api/patients/{id}.
func (h *PatientsHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req PatientRequest
	if !decode(w, r, &req, h.logger) {
		return
	}

	patient, err := sc.Client.UpdatePatient(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: patient})
}

// Delete handles DELETE /api/patients/{id}.
func (h *PatientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := sc.Client.DeletePatient(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Statistics handles GET /api/patients/statistics.
func (h *PatientsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	sc, ok := scopeFrom(w, r, h.logger)
	if !ok {
		return
	}

	stats, err := sc.Client.Statistics(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
