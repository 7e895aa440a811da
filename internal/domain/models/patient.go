package models

import "time"

// Patient is the pharmacy-facing patient profile. Fields mirror what the
// clinical agent needs for suitability checks; the full medical record
// lives in extracted document chunks.
type Patient struct {
	ID                string    `json:"id"`
	FullName          string    `json:"full_name"`
	Age               *int      `json:"age,omitempty"`
	Allergies         []string  `json:"allergies"`
	ChronicConditions []string  `json:"chronic_conditions"`
	Language          string    `json:"language"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HealthSummary is a condensed clinical snapshot maintained per patient.
// An empty summary (zero value with the patient ID set) is valid and
// means no data has been recorded yet.
type HealthSummary struct {
	PatientID          string    `json:"patient_id"`
	Conditions         []string  `json:"conditions"`
	CurrentMedications []string  `json:"current_medications"`
	Notes              string    `json:"notes"`
	UpdatedAt          time.Time `json:"updated_at"`
}
