package converter

import (
	"opd-booking/internal/delivery/dto"
	"opd-booking/internal/domain/entity"
)

// PrescriptionToResponse converts a Prescription entity to its DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	response := &dto.PrescriptionResponse{
		ID:               prescription.ID,
		AppointmentID:    prescription.AppointmentID,
		DoctorID:         prescription.DoctorID.String(),
		DoctorName:       prescription.DoctorName,
		VitalBP:          prescription.VitalBP,
		VitalPulse:       prescription.VitalPulse,
		VitalSpO2:        prescription.VitalSpO2,
		VitalTemp:        prescription.VitalTemp,
		Symptoms:         prescription.Symptoms,
		ClinicalFindings: prescription.ClinicalFindings,
		Diagnosis:        prescription.Diagnosis,
		Medicines:        prescription.Medicines,
		LabTests:         prescription.LabTests,
		Advice:           prescription.Advice,
		CreatedAt:        prescription.CreatedAt,
		UpdatedAt:        prescription.UpdatedAt,
	}

	if prescription.FollowUpDate != nil {
		response.FollowUpDate = prescription.FollowUpDate.Format("2006-01-02")
	}

	return response
}
