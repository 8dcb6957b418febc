package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"opd-booking/config"
	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
	"opd-booking/internal/domain/repository"
	"opd-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

const testPaymentSecret = "test-secret"

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*entity.Doctor
}

func (r *fakeDoctorRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return r.doctors[id], nil
}

func (r *fakeDoctorRepo) FindAll(_ *gorm.DB, _ *entity.DoctorFilter) ([]entity.Doctor, error) {
	doctors := make([]entity.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		doctors = append(doctors, *d)
	}
	return doctors, nil
}

// fakeAppointmentRepo mimics the guarded ledger: CreateWithinLimit re-counts
// and inserts under one mutex, like the real transaction does.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []entity.Appointment
	nextID       int64
	tokens       map[int64]string
}

func (r *fakeAppointmentRepo) CreateWithinLimit(_ *gorm.DB, appointment *entity.Appointment, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int
	for i := range r.appointments {
		if r.appointments[i].DoctorID == appointment.DoctorID &&
			r.appointments[i].AppointmentDate.Equal(appointment.AppointmentDate) {
			count++
		}
	}
	if count >= limit {
		return repository.ErrDailyLimitReached
	}

	r.nextID++
	appointment.ID = r.nextID
	r.appointments = append(r.appointments, *appointment)
	return nil
}

func (r *fakeAppointmentRepo) CountByDoctorAndDate(_ *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for i := range r.appointments {
		if r.appointments[i].DoctorID == doctorID && r.appointments[i].AppointmentDate.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) FindByID(_ *gorm.DB, id int64) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appointments {
		if r.appointments[i].ID == id {
			appointment := r.appointments[i]
			return &appointment, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindByPatient(_ *gorm.DB, _ *entity.AppointmentFilter) ([]entity.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) FindByDoctor(_ *gorm.DB, _ *entity.DoctorAppointmentFilter) ([]entity.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) SetToken(_ *gorm.DB, id int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tokens == nil {
		r.tokens = make(map[int64]string)
	}
	r.tokens[id] = token
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newBookingUsecase(t *testing.T, doctors []*entity.Doctor) (AppointmentBookingUsecase, *fakeAppointmentRepo) {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open dummy db: %v", err)
	}

	log := testLogger()
	slotLocks := service.NewSlotLockService(log)
	t.Cleanup(slotLocks.Stop)

	doctorRepo := &fakeDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{}}
	for _, d := range doctors {
		doctorRepo.doctors[d.ID] = d
	}
	appointmentRepo := &fakeAppointmentRepo{}

	payments := service.NewPaymentVerifier(config.PaymentConfig{KeySecret: testPaymentSecret})

	u := NewAppointmentBookingUsecase(db, log, doctorRepo, appointmentRepo, slotLocks, nil, payments, nil)
	return u, appointmentRepo
}

func newTestDoctor(limit int, opdDays string) *entity.Doctor {
	return &entity.Doctor{
		ID:         uuid.New(),
		FirstName:  "Riya",
		LastName:   "Mehta",
		Fees:       500,
		OPDDays:    opdDays,
		DailyLimit: limit,
		IsActive:   true,
	}
}

func bookingRequest(doctor *entity.Doctor, date string) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		DoctorID:     doctor.ID.String(),
		Date:         date,
		Time:         "10:30 AM",
		PatientName:  "Arun Kumar",
		PatientPhone: "9876543210",
	}
}

// 2025-06-02 is a Monday, 2025-06-03 a Tuesday.
const (
	monday  = "2025-06-02"
	tuesday = "2025-06-03"
)

func seedAppointments(repo *fakeAppointmentRepo, doctor *entity.Doctor, date string, n int) {
	day, _ := time.Parse("2006-01-02", date)
	for i := 0; i < n; i++ {
		repo.nextID++
		repo.appointments = append(repo.appointments, entity.Appointment{
			ID:              repo.nextID,
			DoctorID:        doctor.ID,
			AppointmentDate: day,
			PatientName:     "Seeded",
			PatientPhone:    "9000000000",
		})
	}
}

func TestCheckAvailability(t *testing.T) {
	cases := []struct {
		name          string
		doctor        *entity.Doctor
		date          string
		seeded        int
		wantAvailable bool
		wantRemaining int
		wantMessage   string
	}{
		{
			name:          "open day with free slots",
			doctor:        newTestDoctor(5, ""),
			date:          tuesday,
			seeded:        3,
			wantAvailable: true,
			wantRemaining: 2,
		},
		{
			name:        "rejected weekday names the day",
			doctor:      newTestDoctor(5, "Tue,Thu"),
			date:        monday,
			wantMessage: "Not available on Mon",
		},
		{
			name:          "opd day in the configured list",
			doctor:        newTestDoctor(5, "Tue,Thu"),
			date:          tuesday,
			wantAvailable: true,
			wantRemaining: 5,
		},
		{
			name:        "fully booked",
			doctor:      newTestDoctor(3, ""),
			date:        tuesday,
			seeded:      3,
			wantAvailable: false,
			wantMessage: "Fully booked",
		},
		{
			name:          "zero limit falls back to default",
			doctor:        newTestDoctor(0, ""),
			date:          tuesday,
			wantAvailable: true,
			wantRemaining: entity.DefaultDailyLimit,
		},
		{
			name:        "inactive doctor",
			doctor:      &entity.Doctor{ID: uuid.New(), FirstName: "Riya", DailyLimit: 5, IsActive: false},
			date:        tuesday,
			wantMessage: "Doctor is not accepting appointments",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, repo := newBookingUsecase(t, []*entity.Doctor{c.doctor})
			seedAppointments(repo, c.doctor, c.date, c.seeded)

			availability, err := u.CheckAvailability(context.Background(), c.doctor.ID, c.date)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if availability.Available != c.wantAvailable {
				t.Fatalf("expected available=%v, got %v", c.wantAvailable, availability.Available)
			}
			if availability.Remaining != c.wantRemaining {
				t.Fatalf("expected remaining=%d, got %d", c.wantRemaining, availability.Remaining)
			}
			if c.wantMessage != "" && availability.Message != c.wantMessage {
				t.Fatalf("expected message %q, got %q", c.wantMessage, availability.Message)
			}
		})
	}
}

func TestCheckAvailabilityUnknownDoctor(t *testing.T) {
	u, _ := newBookingUsecase(t, nil)

	_, err := u.CheckAvailability(context.Background(), uuid.New(), tuesday)
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestCheckAvailabilityInvalidDate(t *testing.T) {
	doctor := newTestDoctor(5, "")
	u, _ := newBookingUsecase(t, []*entity.Doctor{doctor})

	_, err := u.CheckAvailability(context.Background(), doctor.ID, "03-06-2025")
	if !errors.Is(err, ErrInvalidAppointmentDate) {
		t.Fatalf("expected ErrInvalidAppointmentDate, got %v", err)
	}
}

func TestCheckAvailabilityIdempotent(t *testing.T) {
	doctor := newTestDoctor(10, "")
	u, repo := newBookingUsecase(t, []*entity.Doctor{doctor})
	seedAppointments(repo, doctor, tuesday, 4)

	first, err := u.CheckAvailability(context.Background(), doctor.ID, tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := u.CheckAvailability(context.Background(), doctor.ID, tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Remaining != second.Remaining {
		t.Fatalf("remaining changed without bookings: %d vs %d", first.Remaining, second.Remaining)
	}
	if first.Remaining != 6 {
		t.Fatalf("expected remaining=6, got %d", first.Remaining)
	}
}

func TestBookAppointment(t *testing.T) {
	doctor := newTestDoctor(5, "Tue,Thu")
	u, repo := newBookingUsecase(t, []*entity.Doctor{doctor})

	booking, err := u.BookAppointment(context.Background(), bookingRequest(doctor, tuesday))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !booking.Success {
		t.Fatal("expected success=true")
	}
	if booking.ID != 1 {
		t.Fatalf("expected id=1, got %d", booking.ID)
	}
	wantToken := bookingToken(1, time.Now().Year())
	if booking.Token != wantToken {
		t.Fatalf("expected token %q, got %q", wantToken, booking.Token)
	}
	if repo.tokens[1] != wantToken {
		t.Fatalf("expected token persisted to ledger, got %q", repo.tokens[1])
	}

	stored := repo.appointments[0]
	if stored.Status != entity.AppointmentStatusPending {
		t.Fatalf("expected pending status without payment, got %s", stored.Status)
	}
	if stored.DoctorName != "Riya Mehta" {
		t.Fatalf("expected doctor name filled from directory, got %q", stored.DoctorName)
	}
}

func TestBookAppointmentRejections(t *testing.T) {
	inactive := newTestDoctor(5, "")
	inactive.IsActive = false

	cases := []struct {
		name    string
		doctor  *entity.Doctor
		date    string
		wantErr error
	}{
		{
			name:    "non-opd weekday",
			doctor:  newTestDoctor(5, "Tue,Thu"),
			date:    monday,
			wantErr: ErrNotOPDDay,
		},
		{
			name:    "inactive doctor",
			doctor:  inactive,
			date:    tuesday,
			wantErr: ErrDoctorInactive,
		},
		{
			name:    "invalid date",
			doctor:  newTestDoctor(5, ""),
			date:    "June 3rd",
			wantErr: ErrInvalidAppointmentDate,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, repo := newBookingUsecase(t, []*entity.Doctor{c.doctor})

			_, err := u.BookAppointment(context.Background(), bookingRequest(c.doctor, c.date))
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
			if len(repo.appointments) != 0 {
				t.Fatalf("expected no inserted records, got %d", len(repo.appointments))
			}
		})
	}
}

func TestBookAppointmentNotOPDDayNamesWeekday(t *testing.T) {
	doctor := newTestDoctor(5, "Tue,Thu")
	u, _ := newBookingUsecase(t, []*entity.Doctor{doctor})

	_, err := u.BookAppointment(context.Background(), bookingRequest(doctor, monday))
	if err == nil || !strings.Contains(err.Error(), "Mon") {
		t.Fatalf("expected error naming the weekday, got %v", err)
	}
}

func TestBookAppointmentUnknownDoctor(t *testing.T) {
	u, _ := newBookingUsecase(t, nil)

	req := bookingRequest(newTestDoctor(5, ""), tuesday)
	_, err := u.BookAppointment(context.Background(), req)
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testPaymentSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestBookAppointmentPaymentValidation(t *testing.T) {
	doctor := newTestDoctor(5, "")

	cases := []struct {
		name      string
		paymentID string
		orderID   string
		signature string
		wantErr   error
	}{
		{
			name:      "payment id without confirmation",
			paymentID: "pay_123",
			wantErr:   ErrIncompletePayment,
		},
		{
			name:      "payment id without signature",
			paymentID: "pay_123",
			orderID:   "order_1",
			wantErr:   ErrIncompletePayment,
		},
		{
			name:      "tampered signature",
			paymentID: "pay_123",
			orderID:   "order_1",
			signature: signPayment("order_1", "pay_999"),
			wantErr:   ErrInvalidPaymentSignature,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, repo := newBookingUsecase(t, []*entity.Doctor{doctor})

			req := bookingRequest(doctor, tuesday)
			req.PaymentID = c.paymentID
			req.PaymentOrderID = c.orderID
			req.PaymentSignature = c.signature

			_, err := u.BookAppointment(context.Background(), req)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
			if len(repo.appointments) != 0 {
				t.Fatalf("expected no inserted records after payment rejection, got %d", len(repo.appointments))
			}
		})
	}
}

func TestBookAppointmentWithVerifiedPayment(t *testing.T) {
	doctor := newTestDoctor(5, "")
	u, repo := newBookingUsecase(t, []*entity.Doctor{doctor})

	req := bookingRequest(doctor, tuesday)
	req.PaymentID = "pay_123"
	req.PaymentOrderID = "order_1"
	req.PaymentSignature = signPayment("order_1", "pay_123")

	booking, err := u.BookAppointment(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !booking.Success {
		t.Fatal("expected success=true")
	}

	stored := repo.appointments[0]
	if stored.Status != entity.AppointmentStatusApproved {
		t.Fatalf("expected approved status, got %s", stored.Status)
	}
	if stored.PaymentAmount == nil || *stored.PaymentAmount != doctor.Fees {
		t.Fatalf("expected payment amount %v, got %v", doctor.Fees, stored.PaymentAmount)
	}
	if stored.PaymentID != "pay_123" || stored.PaymentOrderID != "order_1" {
		t.Fatal("expected payment references stored")
	}
}

// The invariant from the ledger: N+K simultaneous bookings for a limit of N
// must admit exactly N and reject K with a capacity error.
func TestBookAppointmentConcurrent(t *testing.T) {
	const limit = 5
	const attempts = 12

	doctor := newTestDoctor(limit, "")
	u, repo := newBookingUsecase(t, []*entity.Doctor{doctor})

	var wg sync.WaitGroup
	errCh := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := u.BookAppointment(context.Background(), bookingRequest(doctor, tuesday))
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var successes, capacityRejections int
	for err := range errCh {
		switch {
		case err == nil:
			successes++
		default:
			var capacityErr *CapacityError
			if !errors.As(err, &capacityErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			capacityRejections++
		}
	}

	if successes != limit {
		t.Fatalf("expected %d successes, got %d", limit, successes)
	}
	if capacityRejections != attempts-limit {
		t.Fatalf("expected %d capacity rejections, got %d", attempts-limit, capacityRejections)
	}
	if len(repo.appointments) != limit {
		t.Fatalf("expected %d committed records, got %d", limit, len(repo.appointments))
	}
}

func TestBookAppointmentCapacityErrorDetail(t *testing.T) {
	doctor := newTestDoctor(1, "")
	u, repo := newBookingUsecase(t, []*entity.Doctor{doctor})
	seedAppointments(repo, doctor, tuesday, 1)

	_, err := u.BookAppointment(context.Background(), bookingRequest(doctor, tuesday))

	var capacityErr *CapacityError
	if !errors.As(err, &capacityErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capacityErr.DoctorName != "Riya Mehta" || capacityErr.Date != tuesday {
		t.Fatalf("expected doctor and date in capacity error, got %+v", capacityErr)
	}
	if !strings.Contains(capacityErr.Error(), tuesday) {
		t.Fatalf("expected date in message, got %q", capacityErr.Error())
	}
}

func TestBookingToken(t *testing.T) {
	cases := []struct {
		id   int64
		year int
		want string
	}{
		{id: 42, year: 2025, want: "OB/2025/000042"},
		{id: 1, year: 2024, want: "OB/2024/000001"},
		{id: 1234567, year: 2025, want: "OB/2025/1234567"},
	}

	for _, c := range cases {
		if got := bookingToken(c.id, c.year); got != c.want {
			t.Fatalf("bookingToken(%d, %d): expected %q, got %q", c.id, c.year, got, c.want)
		}
	}
}

func TestResolveAge(t *testing.T) {
	now := time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC)

	intPtr := func(v int) *int { return &v }

	cases := []struct {
		name   string
		rawAge string
		dob    string
		want   *int
	}{
		{name: "explicit age wins", rawAge: "31", dob: "2000-06-15", want: intPtr(31)},
		{name: "derived from dob", rawAge: "", dob: "2000-06-15", want: intPtr(24)},
		{name: "day before birthday", rawAge: "", dob: "2000-06-17", want: intPtr(23)},
		{name: "non-numeric age falls back to dob", rawAge: "twenty", dob: "2000-06-15", want: intPtr(24)},
		{name: "negative age ignored", rawAge: "-5", dob: "", want: nil},
		{name: "nothing to derive from", rawAge: "", dob: "", want: nil},
		{name: "garbage dob", rawAge: "", dob: "15/06/2000", want: nil},
		{name: "future dob", rawAge: "", dob: "2030-01-01", want: nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := resolveAge(c.rawAge, c.dob, now)
			if (got == nil) != (c.want == nil) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			if got != nil && *got != *c.want {
				t.Fatalf("expected %d, got %d", *c.want, *got)
			}
		})
	}
}
