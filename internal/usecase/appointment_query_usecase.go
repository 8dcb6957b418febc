package usecase

import (
	"context"

	"opd-booking/internal/converter"
	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
	"opd-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppointmentQueryUsecase covers the read side of the ledger: patients
// re-querying their bookings by contact, and doctors pulling their day list.
// Neither path mutates slot counts.
type AppointmentQueryUsecase interface {
	SearchByPatient(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	ListByDoctor(ctx context.Context, filter *entity.DoctorAppointmentFilter) (*dto.AppointmentListResponse, error)
}

type appointmentQueryUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
}

func NewAppointmentQueryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
) AppointmentQueryUsecase {
	return &appointmentQueryUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
	}
}

func (u *appointmentQueryUsecase) SearchByPatient(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatient(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to search appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, nil),
		Total:        len(appointments),
	}, nil
}

// ListByDoctor returns a doctor's appointments, marking the ones that already
// carry a prescription sheet as Completed.
func (u *appointmentQueryUsecase) ListByDoctor(ctx context.Context, filter *entity.DoctorAppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctor(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments for doctor %s: %+v", filter.DoctorID, err)
		return nil, err
	}

	completedIDs, err := u.completedAppointments(ctx, appointments)
	if err != nil {
		u.log.Warnf("Failed to resolve prescription status: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, completedIDs),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentQueryUsecase) completedAppointments(ctx context.Context, appointments []entity.Appointment) (map[int64]bool, error) {
	if len(appointments) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(appointments))
	for i := range appointments {
		ids[i] = appointments[i].ID
	}

	prescriptions, err := u.prescriptionRepo.FindByAppointmentIDs(u.db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}

	completed := make(map[int64]bool, len(prescriptions))
	for i := range prescriptions {
		completed[prescriptions[i].AppointmentID] = true
	}
	return completed, nil
}
