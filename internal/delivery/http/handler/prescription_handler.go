package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/usecase"
	"opd-booking/pkg/response"
	"opd-booking/pkg/validator"

	"github.com/gorilla/mux"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) SavePrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.SavePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.prescriptionUsecase.SavePrescription(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		case errors.Is(err, usecase.ErrInvalidFollowUpDate):
			response.Error(w, http.StatusBadRequest, "Invalid follow-up date", nil)
		default:
			response.InternalServerError(w, "Failed to save prescription")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription saved successfully", prescription)
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	prescription, err := h.prescriptionUsecase.GetPrescription(r.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, usecase.ErrPrescriptionNotFound) {
			response.NotFound(w, "Prescription not found")
			return
		}
		response.InternalServerError(w, "Failed to get prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}
