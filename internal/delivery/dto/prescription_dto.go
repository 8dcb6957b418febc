package dto

import "time"

// Request DTOs

type SavePrescriptionRequest struct {
	AppointmentID int64  `json:"appointment_id" validate:"required,min=1"`
	DoctorID      string `json:"doctor_id" validate:"required,uuid"`
	DoctorName    string `json:"doctor_name"`

	VitalBP    string `json:"vital_bp"`
	VitalPulse string `json:"vital_pulse"`
	VitalSpO2  string `json:"vital_spo2"`
	VitalTemp  string `json:"vital_temp"`

	Symptoms         string                   `json:"symptoms"`
	ClinicalFindings string                   `json:"clinical_findings"`
	Diagnosis        string                   `json:"diagnosis"`
	Medicines        []map[string]interface{} `json:"medicines"`
	LabTests         string                   `json:"lab_tests"`
	Advice           string                   `json:"advice"`
	FollowUpDate     string                   `json:"follow_up_date"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID            int64  `json:"id"`
	AppointmentID int64  `json:"appointment_id"`
	DoctorID      string `json:"doctor_id"`
	DoctorName    string `json:"doctor_name"`

	VitalBP    string `json:"vital_bp,omitempty"`
	VitalPulse string `json:"vital_pulse,omitempty"`
	VitalSpO2  string `json:"vital_spo2,omitempty"`
	VitalTemp  string `json:"vital_temp,omitempty"`

	Symptoms         string                   `json:"symptoms,omitempty"`
	ClinicalFindings string                   `json:"clinical_findings,omitempty"`
	Diagnosis        string                   `json:"diagnosis,omitempty"`
	Medicines        []map[string]interface{} `json:"medicines,omitempty"`
	LabTests         string                   `json:"lab_tests,omitempty"`
	Advice           string                   `json:"advice,omitempty"`
	FollowUpDate     string                   `json:"follow_up_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
