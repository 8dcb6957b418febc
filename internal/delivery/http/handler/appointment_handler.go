package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
	"opd-booking/internal/usecase"
	"opd-booking/pkg/response"
	"opd-booking/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	bookingUsecase usecase.AppointmentBookingUsecase
	queryUsecase   usecase.AppointmentQueryUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(
	bookingUsecase usecase.AppointmentBookingUsecase,
	queryUsecase usecase.AppointmentQueryUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		queryUsecase:   queryUsecase,
		validator:      validator,
	}
}

// CheckAvailability answers whether a doctor still has slots on a date. The
// answer is advisory; the booking endpoint re-checks under its own guard.
func (h *AppointmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, dto.AvailabilityResponse{Available: false, Message: "Invalid request body"})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, dto.AvailabilityResponse{Available: false, Message: "doctor_id and date are required"})
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		response.JSON(w, http.StatusNotFound, dto.AvailabilityResponse{Available: false, Message: "Doctor not found"})
		return
	}

	availability, err := h.bookingUsecase.CheckAvailability(r.Context(), doctorID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.JSON(w, http.StatusNotFound, dto.AvailabilityResponse{Available: false, Message: "Doctor not found"})
		case errors.Is(err, usecase.ErrInvalidAppointmentDate):
			response.JSON(w, http.StatusBadRequest, dto.AvailabilityResponse{Available: false, Message: err.Error()})
		default:
			response.JSON(w, http.StatusInternalServerError, dto.AvailabilityResponse{Available: false, Message: "Failed to check availability"})
		}
		return
	}

	response.JSON(w, http.StatusOK, availability)
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, validationMessage(h.validator.FormatValidationErrors(err)))
		return
	}

	booking, err := h.bookingUsecase.BookAppointment(r.Context(), &req)
	if err != nil {
		var capacityErr *usecase.CapacityError
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			writeBookingError(w, http.StatusNotFound, "Doctor not found")
		case errors.As(err, &capacityErr):
			// Distinct from validation failures so the client can prompt for
			// another date; the message carries doctor and date for manual
			// reconciliation of verified payments.
			writeBookingError(w, http.StatusConflict, capacityErr.Error())
		case errors.Is(err, usecase.ErrDoctorInactive),
			errors.Is(err, usecase.ErrNotOPDDay),
			errors.Is(err, usecase.ErrInvalidAppointmentDate),
			errors.Is(err, usecase.ErrIncompletePayment),
			errors.Is(err, usecase.ErrInvalidPaymentSignature):
			writeBookingError(w, http.StatusBadRequest, err.Error())
		default:
			writeBookingError(w, http.StatusInternalServerError, "Failed to book appointment")
		}
		return
	}

	response.JSON(w, http.StatusCreated, booking)
}

// SearchAppointments lets a patient re-query bookings by contact details.
func (h *AppointmentHandler) SearchAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.AppointmentFilter{
		PatientEmail: query.Get("patient_email"),
		PatientPhone: query.Get("patient_phone"),
		PatientName:  query.Get("patient_name"),
	}

	appointments, err := h.queryUsecase.SearchByPatient(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to search appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) ListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	doctorID, err := uuid.Parse(query.Get("doctor_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "doctor_id required", nil)
		return
	}

	filter := &entity.DoctorAppointmentFilter{
		DoctorID:  doctorID,
		Date:      query.Get("date"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}

	appointments, err := h.queryUsecase.ListByDoctor(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func writeBookingError(w http.ResponseWriter, statusCode int, message string) {
	response.JSON(w, statusCode, dto.BookingErrorResponse{Success: false, Error: message})
}

// validationMessage flattens field errors into the single error string the
// booking endpoint returns.
func validationMessage(fieldErrors map[string]string) string {
	for _, msg := range fieldErrors {
		return msg
	}
	return "Validation failed"
}
