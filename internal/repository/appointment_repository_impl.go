package repository

import (
	"errors"
	"hash/fnv"
	"time"

	"opd-booking/internal/domain/entity"
	domainRepo "opd-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

// CreateWithinLimit re-counts the (doctor, date) bookings and inserts inside a
// single transaction. A Postgres advisory transaction lock keyed on the slot
// serializes concurrent bookings across all instances; it is released
// automatically at commit or rollback, so a failed insert leaves no partial row
// and no dangling lock.
func (r *appointmentRepository) CreateWithinLimit(db *gorm.DB, appointment *entity.Appointment, limit int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		key := slotAdvisoryKey(appointment.DoctorID, appointment.AppointmentDate)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error; err != nil {
			return err
		}

		var count int64
		err := tx.Model(&entity.Appointment{}).
			Where("doctor_id = ? AND appointment_date = ?", appointment.DoctorID, appointment.AppointmentDate).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= int64(limit) {
			return domainRepo.ErrDailyLimitReached
		}

		return tx.Create(appointment).Error
	})
}

func (r *appointmentRepository) CountByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatient(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.Model(&entity.Appointment{})

	if filter != nil {
		if filter.PatientEmail != "" {
			query = query.Where("patient_email ILIKE ?", "%"+filter.PatientEmail+"%")
		}
		if filter.PatientPhone != "" {
			query = query.Where("patient_phone ILIKE ?", "%"+filter.PatientPhone+"%")
		}
		if filter.PatientName != "" {
			query = query.Where("patient_name ILIKE ?", "%"+filter.PatientName+"%")
		}
	}

	var appointments []entity.Appointment
	if err := query.Order("id DESC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctor(db *gorm.DB, filter *entity.DoctorAppointmentFilter) ([]entity.Appointment, error) {
	query := db.Model(&entity.Appointment{}).Where("doctor_id = ?", filter.DoctorID)

	if filter.StartDate != "" && filter.EndDate != "" {
		query = query.Where("appointment_date BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	} else if filter.Date != "" {
		query = query.Where("appointment_date = ?", filter.Date)
	}

	var appointments []entity.Appointment
	if err := query.Order("id DESC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) SetToken(db *gorm.DB, id int64, token string) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("booking_token", token).Error
}

// slotAdvisoryKey hashes (doctorID, date) into the signed 64-bit keyspace
// Postgres advisory locks use.
func slotAdvisoryKey(doctorID uuid.UUID, date time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(doctorID.String()))
	h.Write([]byte(date.Format("2006-01-02")))
	return int64(h.Sum64())
}
