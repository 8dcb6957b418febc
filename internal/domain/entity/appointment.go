package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the payment state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "Pending"
	AppointmentStatusApproved AppointmentStatus = "Approved"
)

// Appointment is one confirmed booking in the ledger. Rows are appended by the
// booking flow and never deleted by it; the auto-increment id is the
// authoritative count source and the base for the booking token.
type Appointment struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID        uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	DoctorName      string    `gorm:"type:varchar(255)" json:"doctor_name"`
	AppointmentDate time.Time `gorm:"type:date;not null;index:idx_appointments_doctor_date" json:"appointment_date"`
	AppointmentTime string    `gorm:"type:varchar(50)" json:"appointment_time"`

	PatientName    string `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone   string `gorm:"type:varchar(20);not null;index" json:"patient_phone"`
	PatientEmail   string `gorm:"type:varchar(255);index" json:"patient_email,omitempty"`
	PatientAddress string `gorm:"type:text" json:"patient_address,omitempty"`
	PatientSex     string `gorm:"type:varchar(10)" json:"patient_sex,omitempty"`
	PatientDOB     string `gorm:"column:patient_dob;type:varchar(20)" json:"patient_dob,omitempty"`
	PatientAge     *int   `json:"patient_age,omitempty"`

	PaymentMethod  string            `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	PaymentID      string            `gorm:"type:varchar(100)" json:"payment_id,omitempty"`
	PaymentOrderID string            `gorm:"type:varchar(100)" json:"payment_order_id,omitempty"`
	PaymentAmount  *float64          `json:"payment_amount,omitempty"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`

	// BookingToken is the human-readable reference (OB/<year>/<serial>),
	// persisted best-effort after insert.
	BookingToken string `gorm:"type:varchar(64);index" json:"booking_token,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPaid checks whether a verified payment is attached
func (a *Appointment) IsPaid() bool {
	return a.PaymentID != ""
}
