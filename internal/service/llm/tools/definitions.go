package tools

import (
	llmModels "healthchain/internal/domain/models/llm"
)

// Tool definitions sent to the model. The schemas here are the contract
// the model plans against; executors in pharmacy_tools.go implement them.

func getMedicinesDefinition() llmModels.ToolDefinition {
	return llmModels.ToolDefinition{
		Name:        "get_medicines",
		Description: "Search the pharmacy medicine registry by partial name. Returns name, price, stock and whether a prescription is required. Only recommend medicines returned by this tool.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Partial medicine name to search for",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results (default 10)",
				},
			},
			"required": []string{"query"},
		},
	}
}

func createOrderDraftDefinition() llmModels.ToolDefinition {
	return llmModels.ToolDefinition{
		Name:        "create_order_draft",
		Description: "Create a draft pharmacy order for the patient. The draft records intent only; stock and prescription checks happen at finalize_order. Always confirm the items with the patient before finalizing.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient_id": map[string]any{
					"type":        "string",
					"description": "The patient's ID",
				},
				"channel": map[string]any{
					"type":        "string",
					"description": "Order channel: chat, voice, whatsapp or kiosk",
				},
				"items": map[string]any{
					"type":        "array",
					"description": "Medicine lines to order",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"medicine_id":       map[string]any{"type": "string"},
							"qty":               map[string]any{"type": "integer"},
							"dosage_text":       map[string]any{"type": "string"},
							"frequency_per_day": map[string]any{"type": "integer"},
							"days_supply":       map[string]any{"type": "integer"},
						},
						"required": []string{"medicine_id", "qty"},
					},
				},
			},
			"required": []string{"patient_id", "items"},
		},
	}
}

func finalizeOrderDefinition() llmModels.ToolDefinition {
	return llmModels.ToolDefinition{
		Name:        "finalize_order",
		Description: "Finalize a draft order after the patient confirms. Re-checks stock and prescription requirements; if any check fails the order stays a draft and the reasons are returned. Tell the patient the reasons instead of retrying blindly.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id": map[string]any{
					"type":        "string",
					"description": "The draft order's ID",
				},
			},
			"required": []string{"order_id"},
		},
	}
}

func getPatientOrdersDefinition() llmModels.ToolDefinition {
	return llmModels.ToolDefinition{
		Name:        "get_patient_orders",
		Description: "List the patient's recent orders with their items and statuses, newest first.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient_id": map[string]any{
					"type":        "string",
					"description": "The patient's ID",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of orders (default 10)",
				},
			},
			"required": []string{"patient_id"},
		},
	}
}

func createRefillAlertDefinition() llmModels.ToolDefinition {
	return llmModels.ToolDefinition{
		Name:        "create_refill_alert",
		Description: "Record a predicted medication run-out so the pharmacy can reach out proactively before the patient runs out.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient_id": map[string]any{
					"type":        "string",
					"description": "The patient's ID",
				},
				"medicine_id": map[string]any{
					"type":        "string",
					"description": "The medicine running out",
				},
				"predicted_runout_date": map[string]any{
					"type":        "string",
					"description": "Predicted run-out date, YYYY-MM-DD",
				},
			},
			"required": []string{"patient_id", "medicine_id", "predicted_runout_date"},
		},
	}
}

func getRefillAlertsDefinition() llmModels.ToolDefinition {
	return llmModels.ToolDefinition{
		Name:        "get_refill_alerts",
		Description: "Fetch the patient's pending refill alerts, soonest run-out first.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient_id": map[string]any{
					"type":        "string",
					"description": "The patient's ID",
				},
			},
			"required": []string{"patient_id"},
		},
	}
}

func logNotificationDefinition() llmModels.ToolDefinition {
	return llmModels.ToolDefinition{
		Name:        "log_notification",
		Description: "Log an outbound notification for the patient (order confirmation, refill reminder). Delivery happens asynchronously.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"patient_id": map[string]any{
					"type":        "string",
					"description": "The patient's ID",
				},
				"channel": map[string]any{
					"type":        "string",
					"description": "Delivery channel: sms, whatsapp, voice or app",
				},
				"type": map[string]any{
					"type":        "string",
					"description": "Notification type, e.g. order_confirmation or refill_reminder",
				},
				"payload": map[string]any{
					"type":        "object",
					"description": "Free-form notification content",
				},
			},
			"required": []string{"patient_id", "channel", "type"},
		},
	}
}
