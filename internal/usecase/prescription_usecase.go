package usecase

import (
	"context"
	"errors"
	"time"

	"opd-booking/internal/converter"
	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
	"opd-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrInvalidFollowUpDate  = errors.New("invalid follow-up date, use YYYY-MM-DD")
)

type PrescriptionUsecase interface {
	// SavePrescription writes the single prescription sheet for an
	// appointment, updating it when one already exists.
	SavePrescription(ctx context.Context, req *dto.SavePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetPrescription(ctx context.Context, appointmentID int64) (*dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
	}
}

func (u *prescriptionUsecase) SavePrescription(ctx context.Context, req *dto.SavePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	var followUp *time.Time
	if req.FollowUpDate != "" {
		parsed, err := time.Parse("2006-01-02", req.FollowUpDate)
		if err != nil {
			return nil, ErrInvalidFollowUpDate
		}
		followUp = &parsed
	}

	prescription, err := u.prescriptionRepo.FindByAppointmentID(u.db.WithContext(ctx), req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find prescription for appointment %d: %+v", req.AppointmentID, err)
		return nil, err
	}

	if prescription == nil {
		prescription = &entity.Prescription{AppointmentID: req.AppointmentID}
	}

	prescription.DoctorID = doctorID
	prescription.DoctorName = req.DoctorName
	prescription.VitalBP = req.VitalBP
	prescription.VitalPulse = req.VitalPulse
	prescription.VitalSpO2 = req.VitalSpO2
	prescription.VitalTemp = req.VitalTemp
	prescription.Symptoms = req.Symptoms
	prescription.ClinicalFindings = req.ClinicalFindings
	prescription.Diagnosis = req.Diagnosis
	prescription.Medicines = entity.JSONArray(req.Medicines)
	prescription.LabTests = req.LabTests
	prescription.Advice = req.Advice
	prescription.FollowUpDate = followUp

	if prescription.ID == 0 {
		err = u.prescriptionRepo.Create(u.db.WithContext(ctx), prescription)
	} else {
		err = u.prescriptionRepo.Update(u.db.WithContext(ctx), prescription)
	}
	if err != nil {
		u.log.Warnf("Failed to save prescription for appointment %d: %+v", req.AppointmentID, err)
		return nil, err
	}

	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) GetPrescription(ctx context.Context, appointmentID int64) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find prescription for appointment %d: %+v", appointmentID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	return converter.PrescriptionToResponse(prescription), nil
}
