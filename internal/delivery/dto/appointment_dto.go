package dto

import "time"

// Request DTOs

type CheckAvailabilityRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required"`
}

type BookAppointmentRequest struct {
	DoctorID   string `json:"doctor_id" validate:"required,uuid"`
	DoctorName string `json:"doctor_name"`
	Date       string `json:"date" validate:"required"`
	Time       string `json:"time" validate:"required"`

	PatientName    string `json:"patient_name" validate:"required"`
	PatientPhone   string `json:"patient_phone" validate:"required"`
	PatientEmail   string `json:"patient_email" validate:"omitempty,email"`
	PatientAddress string `json:"patient_address"`
	PatientSex     string `json:"patient_sex"`
	PatientDOB     string `json:"patient_dob"`

	// PatientAge arrives as free text from the booking form; the server
	// re-derives it from the DOB when absent or non-numeric.
	PatientAge string `json:"patient_age"`

	PaymentID        string `json:"payment_id"`
	PaymentOrderID   string `json:"payment_order_id"`
	PaymentSignature string `json:"payment_signature"`
}

// Response DTOs

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Remaining int    `json:"remaining,omitempty"`
	Message   string `json:"message,omitempty"`
}

type BookAppointmentResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Token   string `json:"token"`
}

// BookingErrorResponse is the failure shape of the booking endpoints.
type BookingErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type AppointmentResponse struct {
	ID              int64     `json:"id"`
	BookingToken    string    `json:"booking_token,omitempty"`
	DoctorID        string    `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	PatientName     string    `json:"patient_name"`
	PatientPhone    string    `json:"patient_phone"`
	PatientEmail    string    `json:"patient_email,omitempty"`
	PatientAge      *int      `json:"patient_age,omitempty"`
	PatientSex      string    `json:"patient_sex,omitempty"`
	PaymentAmount   *float64  `json:"payment_amount,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
