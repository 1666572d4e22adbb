package clinic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/omarantar7/dentalcare-admin/internal/domain"
)

// dataEnvelope is the {success, data} wrapper the backend puts around
// business resources.
type dataEnvelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// PatientInput is the request body for creating or updating a patient.
type PatientInput struct {
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Address        string `json:"address,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
	Allergies      string `json:"allergies,omitempty"`
}

// ListPatients fetches all patients.
func (c *Client) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	var env dataEnvelope[[]domain.Patient]
	if err := c.do(ctx, http.MethodGet, "/patients", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetPatient fetches a single patient with its treatment sessions.
func (c *Client) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	var env dataEnvelope[*domain.Patient]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreatePatient registers a new patient record.
func (c *Client) CreatePatient(ctx context.Context, input PatientInput) (*domain.Patient, error) {
	var env dataEnvelope[*domain.Patient]
	if err := c.do(ctx, http.MethodPost, "/patients", input, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// UpdatePatient updates an existing patient record.
func (c *Client) UpdatePatient(ctx context.Context, id int64, input PatientInput) (*domain.Patient, error) {
	var env dataEnvelope[*domain.Patient]
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/patients/%d", id), input, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// DeletePatient removes a patient record.
func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/patients/%d", id), nil, nil)
}

// Statistics fetches the dashboard aggregates.
func (c *Client) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var env dataEnvelope[*domain.Statistics]
	if err := c.do(ctx, http.MethodGet, "/patients/statistics", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
