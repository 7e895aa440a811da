package tools

import (
	"context"
	"fmt"

	"healthchain/internal/service/pharmacy"
)

// Pharmacy tool executors. Each wraps one pharmacy.Service operation and
// shapes the result into something small enough to hand back to the
// model.

// argString extracts a string argument from tool input.
func argString(input map[string]interface{}, key string) string {
	s, _ := input[key].(string)
	return s
}

// argInt extracts an integer argument. JSON numbers decode as float64.
func argInt(input map[string]interface{}, key string) int {
	switch v := input[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetMedicinesTool implements the get_medicines tool.
type GetMedicinesTool struct {
	service *pharmacy.Service
}

func NewGetMedicinesTool(service *pharmacy.Service) *GetMedicinesTool {
	return &GetMedicinesTool{service: service}
}

func (t *GetMedicinesTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	query := argString(input, "query")
	limit := argInt(input, "limit")

	medicines, err := t.service.SearchMedicines(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("medicine search failed: %w", err)
	}

	return map[string]interface{}{
		"medicines": medicines,
		"count":     len(medicines),
	}, nil
}

// CreateOrderDraftTool implements the create_order_draft tool.
type CreateOrderDraftTool struct {
	service *pharmacy.Service
}

func NewCreateOrderDraftTool(service *pharmacy.Service) *CreateOrderDraftTool {
	return &CreateOrderDraftTool{service: service}
}

func (t *CreateOrderDraftTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	req := pharmacy.CreateOrderDraftRequest{
		PatientID: argString(input, "patient_id"),
		Channel:   argString(input, "channel"),
	}

	rawItems, _ := input["items"].([]interface{})
	for _, raw := range rawItems {
		item, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid item entry: expected object")
		}
		req.Items = append(req.Items, pharmacy.DraftItem{
			MedicineID:      argString(item, "medicine_id"),
			Qty:             argInt(item, "qty"),
			DosageText:      argString(item, "dosage_text"),
			FrequencyPerDay: argInt(item, "frequency_per_day"),
			DaysSupply:      argInt(item, "days_supply"),
		})
	}

	order, err := t.service.CreateOrderDraft(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create order draft: %w", err)
	}

	return map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
		"total":    order.Total,
		"items":    order.Items,
	}, nil
}

// FinalizeOrderTool implements the finalize_order tool.
type FinalizeOrderTool struct {
	service *pharmacy.Service
}

func NewFinalizeOrderTool(service *pharmacy.Service) *FinalizeOrderTool {
	return &FinalizeOrderTool{service: service}
}

func (t *FinalizeOrderTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	orderID := argString(input, "order_id")

	result, err := t.service.FinalizeOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize order: %w", err)
	}

	// Blocked finalizes are a normal tool result: the model relays the
	// reasons to the patient.
	return result, nil
}

// GetPatientOrdersTool implements the get_patient_orders tool.
type GetPatientOrdersTool struct {
	service *pharmacy.Service
}

func NewGetPatientOrdersTool(service *pharmacy.Service) *GetPatientOrdersTool {
	return &GetPatientOrdersTool{service: service}
}

func (t *GetPatientOrdersTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	patientID := argString(input, "patient_id")
	limit := argInt(input, "limit")

	orders, err := t.service.GetPatientOrders(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	}, nil
}

// CreateRefillAlertTool implements the create_refill_alert tool.
type CreateRefillAlertTool struct {
	service *pharmacy.Service
}

func NewCreateRefillAlertTool(service *pharmacy.Service) *CreateRefillAlertTool {
	return &CreateRefillAlertTool{service: service}
}

func (t *CreateRefillAlertTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	req := pharmacy.CreateRefillAlertRequest{
		PatientID:           argString(input, "patient_id"),
		MedicineID:          argString(input, "medicine_id"),
		PredictedRunoutDate: argString(input, "predicted_runout_date"),
	}

	alert, err := t.service.CreateRefillAlert(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create refill alert: %w", err)
	}

	return map[string]interface{}{
		"alert_id":              alert.ID,
		"predicted_runout_date": alert.PredictedRunoutDate.Format("2006-01-02"),
		"status":                alert.Status,
	}, nil
}

// GetRefillAlertsTool implements the get_refill_alerts tool.
type GetRefillAlertsTool struct {
	service *pharmacy.Service
}

func NewGetRefillAlertsTool(service *pharmacy.Service) *GetRefillAlertsTool {
	return &GetRefillAlertsTool{service: service}
}

func (t *GetRefillAlertsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	patientID := argString(input, "patient_id")

	alerts, err := t.service.GetRefillAlerts(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refill alerts: %w", err)
	}

	return map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	}, nil
}

// LogNotificationTool implements the log_notification tool.
type LogNotificationTool struct {
	service *pharmacy.Service
}

func NewLogNotificationTool(service *pharmacy.Service) *LogNotificationTool {
	return &LogNotificationTool{service: service}
}

func (t *LogNotificationTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	payload, _ := input["payload"].(map[string]interface{})

	req := pharmacy.LogNotificationRequest{
		PatientID: argString(input, "patient_id"),
		Channel:   argString(input, "channel"),
		Type:      argString(input, "type"),
		Payload:   payload,
	}

	notification, err := t.service.LogNotification(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to log notification: %w", err)
	}

	return map[string]interface{}{
		"notification_id": notification.ID,
		"status":          notification.Status,
	}, nil
}
