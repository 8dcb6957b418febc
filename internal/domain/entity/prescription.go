package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Prescription is the single prescription sheet attached to an appointment.
// Saving again for the same appointment updates the existing sheet.
type Prescription struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID int64     `gorm:"not null;uniqueIndex" json:"appointment_id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DoctorName    string    `gorm:"type:varchar(255)" json:"doctor_name"`

	VitalBP    string `gorm:"column:vital_bp;type:varchar(50)" json:"vital_bp,omitempty"`
	VitalPulse string `gorm:"column:vital_pulse;type:varchar(50)" json:"vital_pulse,omitempty"`
	VitalSpO2  string `gorm:"column:vital_spo2;type:varchar(50)" json:"vital_spo2,omitempty"`
	VitalTemp  string `gorm:"column:vital_temp;type:varchar(50)" json:"vital_temp,omitempty"`

	Symptoms         string    `gorm:"type:text" json:"symptoms,omitempty"`
	ClinicalFindings string    `gorm:"type:text" json:"clinical_findings,omitempty"`
	Diagnosis        string    `gorm:"type:text" json:"diagnosis,omitempty"`
	Medicines        JSONArray `gorm:"type:jsonb" json:"medicines,omitempty"`
	LabTests         string    `gorm:"type:text" json:"lab_tests,omitempty"`
	Advice           string    `gorm:"type:text" json:"advice,omitempty"`
	FollowUpDate     *time.Time `gorm:"type:date" json:"follow_up_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// JSONArray type for GORM JSONB support
type JSONArray []map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scans value into JSONArray, implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	var result []map[string]interface{}
	err := json.Unmarshal(bytes, &result)
	*j = JSONArray(result)
	return err
}
