package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDailyLimit caps bookings per day for doctors without an explicit limit.
const DefaultDailyLimit = 20

// Doctor represents a doctor record in the directory.
// The directory is maintained by the admin side; the booking flow only reads it.
type Doctor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(100)" json:"last_name"`
	Department     string    `gorm:"type:varchar(100);index" json:"department"`
	Specialization string    `gorm:"type:varchar(100);index" json:"specialization"`
	Fees           float64   `json:"fees"`
	Phone          string    `gorm:"type:varchar(20)" json:"phone"`
	Email          string    `gorm:"type:varchar(255)" json:"email"`

	// OPDDays holds short weekday names as CSV ("Mon,Wed,Fri").
	// Empty means the doctor accepts bookings on every day.
	OPDDays    string `gorm:"column:opd_days;type:varchar(100)" json:"opd_days"`
	OPDTime    string `gorm:"column:opd_time;type:varchar(100)" json:"opd_time"`
	DailyLimit int    `gorm:"default:20" json:"daily_limit"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// FullName returns the doctor's display name
func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// EffectiveDailyLimit returns the booking cap for a single calendar day,
// falling back to DefaultDailyLimit when no limit is configured.
func (d *Doctor) EffectiveDailyLimit() int {
	if d.DailyLimit <= 0 {
		return DefaultDailyLimit
	}
	return d.DailyLimit
}

// OPDDayNames returns the configured OPD weekday names, trimmed, empties dropped.
func (d *Doctor) OPDDayNames() []string {
	if strings.TrimSpace(d.OPDDays) == "" {
		return nil
	}
	parts := strings.Split(d.OPDDays, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if day := strings.TrimSpace(p); day != "" {
			days = append(days, day)
		}
	}
	return days
}

// AcceptsWeekday reports whether the doctor holds OPD on the given weekday.
// An empty OPD day list means every day is bookable.
func (d *Doctor) AcceptsWeekday(day time.Weekday) bool {
	days := d.OPDDayNames()
	if len(days) == 0 {
		return true
	}
	short := WeekdayShort(day)
	for _, name := range days {
		if strings.EqualFold(name, short) {
			return true
		}
	}
	return false
}

// WeekdayShort returns the three-letter weekday name used in opd_days ("Mon").
func WeekdayShort(day time.Weekday) string {
	return day.String()[:3]
}
