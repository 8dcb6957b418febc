package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
	"opd-booking/internal/domain/repository"
	"opd-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrDoctorInactive          = errors.New("doctor is not accepting appointments")
	ErrInvalidAppointmentDate  = errors.New("invalid appointment date, use YYYY-MM-DD")
	ErrNotOPDDay               = errors.New("doctor is not available")
	ErrIncompletePayment       = errors.New("incomplete payment details")
	ErrInvalidPaymentSignature = errors.New("invalid payment signature")
)

// CapacityError reports a slot that filled up before the booking committed.
// It carries the doctor and date so a paid booking that lost the race can be
// reconciled manually.
type CapacityError struct {
	DoctorName string
	Date       string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("fully booked: %s has no remaining slots on %s", e.DoctorName, e.Date)
}

type AppointmentBookingUsecase interface {
	// CheckAvailability is advisory only: it does not reserve a slot, and a
	// positive answer can be overtaken by concurrent bookings. The
	// authoritative check happens inside BookAppointment.
	CheckAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
	BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.BookAppointmentResponse, error)
}

type appointmentBookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	slotLocks       *service.SlotLockService
	mirror          *service.LedgerMirror
	payments        *service.PaymentVerifier
	sms             service.SMSSender
}

func NewAppointmentBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	slotLocks *service.SlotLockService,
	mirror *service.LedgerMirror,
	payments *service.PaymentVerifier,
	sms service.SMSSender,
) AppointmentBookingUsecase {
	return &appointmentBookingUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		slotLocks:       slotLocks,
		mirror:          mirror,
		payments:        payments,
		sms:             sms,
	}
}

func (u *appointmentBookingUsecase) CheckAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if !doctor.IsActive {
		return &dto.AvailabilityResponse{Available: false, Message: "Doctor is not accepting appointments"}, nil
	}

	if !doctor.AcceptsWeekday(day.Weekday()) {
		return &dto.AvailabilityResponse{
			Available: false,
			Message:   fmt.Sprintf("Not available on %s", entity.WeekdayShort(day.Weekday())),
		}, nil
	}

	limit := doctor.EffectiveDailyLimit()
	count, err := u.bookedCount(ctx, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to count appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	if count >= int64(limit) {
		return &dto.AvailabilityResponse{Available: false, Message: "Fully booked"}, nil
	}

	return &dto.AvailabilityResponse{
		Available: true,
		Remaining: limit - int(count),
	}, nil
}

// BookAppointment admits one booking under the doctor's daily limit.
//
// Flow:
// 1. Validate doctor, date and OPD day
// 2. Verify payment proof, before any write
// 3. Resolve patient age (explicit value or derived from DOB)
// 4. Capacity-guarded insert under the per-slot lock
// 5. Persist booking token, bump the count mirror (both best effort)
// 6. Fire-and-forget SMS notification
func (u *appointmentBookingUsecase) BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.BookAppointmentResponse, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.IsActive {
		return nil, ErrDoctorInactive
	}
	if !doctor.AcceptsWeekday(day.Weekday()) {
		return nil, fmt.Errorf("%w on %s", ErrNotOPDDay, entity.WeekdayShort(day.Weekday()))
	}

	// Payment verification happens before the capacity-guarded insert so a
	// rejected booking can never charge the patient.
	if req.PaymentID != "" {
		if req.PaymentOrderID == "" || req.PaymentSignature == "" {
			return nil, ErrIncompletePayment
		}
		if u.payments.Enabled() && !u.payments.Verify(req.PaymentOrderID, req.PaymentID, req.PaymentSignature) {
			return nil, ErrInvalidPaymentSignature
		}
	}

	doctorName := strings.TrimSpace(req.DoctorName)
	if doctorName == "" {
		doctorName = doctor.FullName()
	}

	appointment := &entity.Appointment{
		DoctorID:        doctor.ID,
		DoctorName:      doctorName,
		AppointmentDate: day,
		AppointmentTime: req.Time,
		PatientName:     req.PatientName,
		PatientPhone:    req.PatientPhone,
		PatientEmail:    req.PatientEmail,
		PatientAddress:  req.PatientAddress,
		PatientSex:      req.PatientSex,
		PatientDOB:      req.PatientDOB,
		PatientAge:      resolveAge(req.PatientAge, req.PatientDOB, time.Now()),
		Status:          entity.AppointmentStatusPending,
	}

	if req.PaymentID != "" {
		fees := doctor.Fees
		appointment.PaymentMethod = "online"
		appointment.PaymentID = req.PaymentID
		appointment.PaymentOrderID = req.PaymentOrderID
		appointment.PaymentAmount = &fees
		appointment.Status = entity.AppointmentStatusApproved
	}

	// The per-slot lock serializes same-slot bookings in this process; the
	// transaction inside CreateWithinLimit re-counts and inserts as one unit,
	// which also covers concurrent instances.
	unlock := u.slotLocks.Lock(doctor.ID, day)
	defer unlock()

	limit := doctor.EffectiveDailyLimit()
	if err := u.appointmentRepo.CreateWithinLimit(u.db.WithContext(ctx), appointment, limit); err != nil {
		if errors.Is(err, repository.ErrDailyLimitReached) {
			return nil, &CapacityError{DoctorName: doctorName, Date: req.Date}
		}
		u.log.Errorf("Failed to insert appointment for doctor %s on %s: %+v", doctorID, req.Date, err)
		return nil, err
	}

	token := bookingToken(appointment.ID, time.Now().Year())
	if err := u.appointmentRepo.SetToken(u.db.WithContext(ctx), appointment.ID, token); err != nil {
		// The token is derivable from the id, so a failed write is not fatal
		u.log.Warnf("Failed to persist booking token %s (non-fatal): %+v", token, err)
	}

	u.mirror.IncrBooked(ctx, doctor.ID, day)

	if u.sms != nil {
		go u.notifyPatient(appointment, token)
	}

	u.log.Infof("Appointment booked: id=%d, doctor=%s, date=%s, token=%s", appointment.ID, doctorID, req.Date, token)

	return &dto.BookAppointmentResponse{
		Success: true,
		ID:      appointment.ID,
		Token:   token,
	}, nil
}

// notifyPatient sends the confirmation SMS on its own timeout so delivery can
// never block or fail the booking response.
func (u *appointmentBookingUsecase) notifyPatient(appointment *entity.Appointment, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	message := fmt.Sprintf(
		"Hi %s, your appointment with %s on %s at %s is confirmed. Ref: %s",
		appointment.PatientName,
		appointment.DoctorName,
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.AppointmentTime,
		token,
	)

	if err := u.sms.Send(ctx, appointment.PatientPhone, message); err != nil {
		u.log.Warnf("Failed to send booking SMS for appointment %d (non-fatal): %+v", appointment.ID, err)
	}
}

// bookedCount prefers the Redis mirror and falls back to a ledger count.
func (u *appointmentBookingUsecase) bookedCount(ctx context.Context, doctorID uuid.UUID, day time.Time) (int64, error) {
	if count, ok := u.mirror.BookedCount(ctx, doctorID, day); ok {
		return count, nil
	}
	return u.appointmentRepo.CountByDoctorAndDate(u.db.WithContext(ctx), doctorID, day)
}

// bookingToken formats the human-readable reference: OB/<year>/<6-digit id>
func bookingToken(id int64, year int) string {
	return fmt.Sprintf("OB/%d/%06d", year, id)
}

// resolveAge picks the explicit age when it parses as a non-negative integer,
// otherwise derives it from the DOB. Returns nil when neither works, so the
// ledger never stores a garbage age.
func resolveAge(rawAge string, dob string, now time.Time) *int {
	if trimmed := strings.TrimSpace(rawAge); trimmed != "" {
		if age, err := strconv.Atoi(trimmed); err == nil && age >= 0 {
			return &age
		}
	}

	if dob == "" {
		return nil
	}
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil
	}

	age := ageAt(born, now)
	if age < 0 {
		return nil
	}
	return &age
}

// ageAt returns whole years elapsed since born
func ageAt(born, now time.Time) int {
	years := now.Year() - born.Year()
	anniversary := born.AddDate(years, 0, 0)
	if now.Before(anniversary) {
		years--
	}
	return years
}
