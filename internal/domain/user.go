package domain

// Role is the staff role assigned to a clinic account.
type Role string

const (
	RoleDoctor   Role = "doctor"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// User represents a clinic staff account as returned by the backend.
// LastLogin is kept as the backend's string representation; the gateway
// never interprets it.
type User struct {
	ID          int64     `json:"id"`
	Role        Role      `json:"role"`
	Status      string    `json:"status"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	LastLogin   string    `json:"last_login,omitempty"`
	Doctor      *Doctor   `json:"doctor,omitempty"`
	Employee    *Employee `json:"employee,omitempty"`
}

// Doctor is the role-specific sub-record for doctor accounts.
type Doctor struct {
	ID             int64  `json:"id"`
	Specialization string `json:"specialization,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
}

// Employee is the role-specific sub-record for employee accounts.
type Employee struct {
	ID       int64  `json:"id"`
	Position string `json:"position,omitempty"`
}

// IsDoctor reports whether the user holds the doctor role.
func (u *User) IsDoctor() bool {
	return u != nil && u.Role == RoleDoctor
}

// IsEmployee reports whether the user holds the employee role.
func (u *User) IsEmployee() bool {
	return u != nil && u.Role == RoleEmployee
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
