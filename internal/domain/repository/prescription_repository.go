package repository

import (
	"opd-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	Update(db *gorm.DB, prescription *entity.Prescription) error
	FindByAppointmentID(db *gorm.DB, appointmentID int64) (*entity.Prescription, error)
	FindByAppointmentIDs(db *gorm.DB, appointmentIDs []int64) ([]entity.Prescription, error)
}
