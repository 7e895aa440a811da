package models

import "time"

// RefillAlert records a predicted medication run-out for proactive
// outreach. No automatic expiry is applied; staleness is a consumer
// concern.
type RefillAlert struct {
	ID                  string    `json:"id"`
	PatientID           string    `json:"patient_id"`
	MedicineID          string    `json:"medicine_id"`
	MedicineName        string    `json:"medicine_name,omitempty"`
	PredictedRunoutDate time.Time `json:"predicted_runout_date"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
}
