package repository

import (
	"errors"
	"time"

	"opd-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDailyLimitReached is returned by CreateWithinLimit when the ledger
// already holds the doctor's full daily quota for the requested date.
var ErrDailyLimitReached = errors.New("daily booking limit reached")

type AppointmentRepository interface {
	// CreateWithinLimit inserts the appointment only if the current number of
	// bookings for (doctor, date) is below limit. The count and the insert run
	// as one indivisible unit; concurrent calls for the same slot never admit
	// more than limit rows in total.
	CreateWithinLimit(db *gorm.DB, appointment *entity.Appointment, limit int) error

	CountByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error)
	FindByID(db *gorm.DB, id int64) (*entity.Appointment, error)
	FindByPatient(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	FindByDoctor(db *gorm.DB, filter *entity.DoctorAppointmentFilter) ([]entity.Appointment, error)
	SetToken(db *gorm.DB, id int64, token string) error
}
