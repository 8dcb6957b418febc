package converter

import (
	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID.String(),
		FirstName:      doctor.FirstName,
		LastName:       doctor.LastName,
		Department:     doctor.Department,
		Specialization: doctor.Specialization,
		Fees:           doctor.Fees,
		Phone:          doctor.Phone,
		Email:          doctor.Email,
		OPDDays:        doctor.OPDDayNames(),
		OPDTime:        doctor.OPDTime,
		DailyLimit:     doctor.EffectiveDailyLimit(),
		IsActive:       doctor.IsActive,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
