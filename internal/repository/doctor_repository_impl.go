package repository

import (
	"errors"

	"opd-booking/internal/domain/entity"
	domainRepo "opd-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	query := db.Model(&entity.Doctor{})

	if filter != nil {
		if filter.Specialization != "" {
			pattern := "%" + filter.Specialization + "%"
			query = query.Where("department ILIKE ? OR specialization ILIKE ?", pattern, pattern)
		}
		if filter.Name != "" {
			query = query.Where("CONCAT(first_name, ' ', last_name) ILIKE ?", "%"+filter.Name+"%")
		}
	}

	var doctors []entity.Doctor
	if err := query.Order("created_at DESC").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}
