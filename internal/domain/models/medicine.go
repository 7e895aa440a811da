package models

import "time"

// Medicine is a registry entry the agent is allowed to recommend from.
// All medicine claims made by the model must be grounded in this table.
type Medicine struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	Price                float64   `json:"price"`
	Stock                int       `json:"stock"`
	PrescriptionRequired bool      `json:"prescription_required"`
	CreatedAt            time.Time `json:"created_at"`
}
