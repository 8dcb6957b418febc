package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for searching the ledger by
// patient contact. Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	PatientEmail string // Partial match (ILIKE)
	PatientPhone string // Partial match (ILIKE)
	PatientName  string // Partial match (ILIKE)
}

// DoctorAppointmentFilter selects a doctor's appointments for a single
// date or a date range. Dates use the YYYY-MM-DD format.
type DoctorAppointmentFilter struct {
	DoctorID  uuid.UUID
	Date      string
	StartDate string
	EndDate   string
}

// DoctorFilter filters the doctor directory listing.
type DoctorFilter struct {
	Specialization string // Matches department or specialization (ILIKE)
	Name           string // Matches the concatenated full name (ILIKE)
}
