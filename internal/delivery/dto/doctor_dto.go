package dto

// Response DTOs

type DoctorResponse struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Department     string   `json:"department"`
	Specialization string   `json:"specialization"`
	Fees           float64  `json:"fees"`
	Phone          string   `json:"phone,omitempty"`
	Email          string   `json:"email,omitempty"`
	OPDDays        []string `json:"opd_days"`
	OPDTime        string   `json:"opd_time"`
	DailyLimit     int      `json:"daily_limit"`
	IsActive       bool     `json:"is_active"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
