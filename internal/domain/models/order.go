package models

import "time"

// Order statuses. An order is created as a draft and only becomes
// confirmed after FinalizeOrder's stock and safety re-check passes.
// A draft that fails finalize stays a draft.
const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"
)

// Order is a pharmacy order. Items are loaded alongside the order.
type Order struct {
	ID        string      `json:"id"`
	PatientID string      `json:"patient_id"`
	Channel   string      `json:"channel"`
	Status    string      `json:"status"`
	Total     float64     `json:"total"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is a single medicine line on an order.
type OrderItem struct {
	ID              string `json:"id"`
	OrderID         string `json:"order_id"`
	MedicineID      string `json:"medicine_id"`
	Qty             int    `json:"qty"`
	DosageText      string `json:"dosage_text,omitempty"`
	FrequencyPerDay int    `json:"frequency_per_day,omitempty"`
	DaysSupply      int    `json:"days_supply,omitempty"`
}
