package converter

import (
	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to its DTO.
// completed marks appointments that already carry a prescription sheet.
func AppointmentToResponse(appointment *entity.Appointment, completed bool) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	status := string(appointment.Status)
	if completed {
		status = "Completed"
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		BookingToken:    appointment.BookingToken,
		DoctorID:        appointment.DoctorID.String(),
		DoctorName:      appointment.DoctorName,
		AppointmentDate: appointment.AppointmentDate.Format("2006-01-02"),
		AppointmentTime: appointment.AppointmentTime,
		PatientName:     appointment.PatientName,
		PatientPhone:    appointment.PatientPhone,
		PatientEmail:    appointment.PatientEmail,
		PatientAge:      appointment.PatientAge,
		PatientSex:      appointment.PatientSex,
		PaymentAmount:   appointment.PaymentAmount,
		Status:          status,
		CreatedAt:       appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts appointments, marking the ones whose id is
// present in completedIDs.
func AppointmentsToResponses(appointments []entity.Appointment, completedIDs map[int64]bool) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], completedIDs[appointments[i].ID])
	}
	return responses
}
