package models

import "time"

// Notification is an outbound patient notification record (logged by the
// agent's log_notification tool; delivery is a separate concern).
type Notification struct {
	ID        string         `json:"id"`
	PatientID string         `json:"patient_id"`
	Channel   string         `json:"channel"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}
