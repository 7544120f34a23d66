package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel is one of the five fixed scheduling contact methods.
type Channel string

const (
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelSMS      Channel = "SMS"
	ChannelEmail    Channel = "Email"
	ChannelApp      Channel = "App"
	ChannelPhone    Channel = "Phone"
)

// Channels lists every channel in presentation order.
var Channels = []Channel{ChannelWhatsApp, ChannelSMS, ChannelEmail, ChannelApp, ChannelPhone}

// ValidChannel reports whether s names one of the five channels.
func ValidChannel(s string) bool {
	for _, c := range Channels {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Status is the outcome of an appointment.
type Status string

const (
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusNoShow    Status = "NoShow"
)

// Statuses lists every status.
var Statuses = []Status{StatusCompleted, StatusCancelled, StatusNoShow}

// ValidStatus reports whether s names a known status.
func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// ValidSex reports whether s is "M" or "F".
func ValidSex(s string) bool {
	return s == string(SexMale) || s == string(SexFemale)
}

// AppointmentType classifies the kind of visit.
type AppointmentType string

const (
	TypeConsultation AppointmentType = "Consultation"
	TypeFollowUp     AppointmentType = "FollowUp"
	TypeExam         AppointmentType = "Exam"
)

// Specialties available in the simulated clinic.
var Specialties = []string{"General", "Cardiology", "Dermatology", "Orthopedics", "Pediatrics"}

// AppointmentRecord is one simulated appointment. Immutable once generated.
type AppointmentRecord struct {
	ID            uuid.UUID       `json:"id"`
	VisitDate     time.Time       `json:"visit_date"`
	PatientID     string          `json:"patient_id"`
	PatientAge    int             `json:"patient_age"`
	PatientSex    Sex             `json:"patient_sex"`
	Channel       Channel         `json:"channel"`
	Type          AppointmentType `json:"type"`
	Specialty     string          `json:"specialty"`
	Status        Status          `json:"status"`
	GrossValue    float64         `json:"gross_value"`
	OperatingCost float64         `json:"operating_cost"`
	NetProfit     float64         `json:"net_profit"`
}

// AgeBands in presentation order.
var AgeBands = []string{"0-17", "18-25", "26-35", "36-45", "46-60", "60+"}

// AgeBand maps an age to its band label.
func AgeBand(age int) string {
	switch {
	case age <= 17:
		return "0-17"
	case age <= 25:
		return "18-25"
	case age <= 35:
		return "26-35"
	case age <= 45:
		return "36-45"
	case age <= 60:
		return "46-60"
	default:
		return "60+"
	}
}
