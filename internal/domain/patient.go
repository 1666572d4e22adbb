package domain

// Patient is a clinic patient record as served by the backend API.
type Patient struct {
	ID               int64              `json:"id"`
	FullName         string             `json:"full_name"`
	PhoneNumber      string             `json:"phone_number"`
	Email            string             `json:"email,omitempty"`
	Gender           string             `json:"gender,omitempty"`
	BirthDate        string             `json:"birth_date,omitempty"`
	Address          string             `json:"address,omitempty"`
	MedicalHistory   string             `json:"medical_history,omitempty"`
	Allergies        string             `json:"allergies,omitempty"`
	FinalPrice       float64            `json:"final_price"`
	DeliveredPrice   float64            `json:"delivered_price"`
	RemainingBalance float64            `json:"remaining_balance"`
	Sessions         []TreatmentSession `json:"sessions,omitempty"`
}

// TreatmentSession is a single treatment visit, optionally with a lab referral.
type TreatmentSession struct {
	ID             int64   `json:"id"`
	PatientID      int64   `json:"patient_id,omitempty"`
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

// Lab is an external dental lab the clinic refers work to.
type Lab struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	ContactPersonName string `json:"contact_person_name,omitempty"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	Email             string `json:"email,omitempty"`
}

// Statistics are the dashboard aggregates.
type Statistics struct {
	TotalPatients int64   `json:"totalPatients"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalPending  float64 `json:"totalPending"`
	TotalSessions int64   `json:"totalSessions"`
}
