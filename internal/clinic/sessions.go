package clinic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
)

// TreatmentSessionInput is the request body for creating or updating a
// treatment session, optionally with a lab referral.
type TreatmentSessionInput struct {
	Date           string  `json:"date"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Notes          string  `json:"notes,omitempty"`
	PaymentAmount  float64 `json:"payment_amount,omitempty"`
	VisitedLab     bool    `json:"visited_lab,omitempty"`
	LabID          int64   `json:"lab_id,omitempty"`
	LabWorkType    string  `json:"lab_work_type,omitempty"`
	LabCost        float64 `json:"lab_cost,omitempty"`
	LabDescription string  `json:"lab_description,omitempty"`
}

// CreateTreatmentSession records a new treatment session for a patient.
func (c *Client) CreateTreatmentSession(ctx context.Context, patientID int64, input TreatmentSessionInput) (*domain.TreatmentSession, error) {
	var env dataEnvelope[*domain.TreatmentSession]
	path := fmt.Sprintf("/patients/%d/sessions", patientID)
	if err := c.do(ctx, http.MethodPost, path, input, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// UpdateTreatmentSession updates an existing treatment session.
func (c *Client) UpdateTreatmentSession(ctx context.Context, patientID, sessionID int64, input TreatmentSessionInput) (*domain.TreatmentSession, error) {
	var env dataEnvelope[*domain.TreatmentSession]
	path := fmt.Sprintf("/patients/%d/sessions/%d", patientID, sessionID)
	if err := c.do(ctx, http.MethodPut, path, input, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// DeleteTreatmentSession removes a treatment session.
func (c *Client) DeleteTreatmentSession(ctx context.Context, patientID, sessionID int64) error {
	path := fmt.Sprintf("/patients/%d/sessions/%d", patientID, sessionID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListLabs fetches the external labs available for referrals.
func (c *Client) ListLabs(ctx context.Context) ([]domain.Lab, error) {
	var env dataEnvelope[[]domain.Lab]
	if err := c.do(ctx, http.MethodGet, "/labs", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
