package repository

import (
	"errors"

	"opd-booking/internal/domain/entity"
	domainRepo "opd-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Create(prescription).Error
}

func (r *prescriptionRepository) Update(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Save(prescription).Error
}

func (r *prescriptionRepository) FindByAppointmentID(db *gorm.DB, appointmentID int64) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := db.Where("appointment_id = ?", appointmentID).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByAppointmentIDs(db *gorm.DB, appointmentIDs []int64) ([]entity.Prescription, error) {
	if len(appointmentIDs) == 0 {
		return nil, nil
	}
	var prescriptions []entity.Prescription
	err := db.Where("appointment_id IN ?", appointmentIDs).Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}
