package tools

import (
	"healthchain/internal/service/pharmacy"
)

// ToolRegistryBuilder provides a fluent API for building tool registries.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
}

// NewToolRegistryBuilder creates a new builder with a fresh registry.
func NewToolRegistryBuilder() *ToolRegistryBuilder {
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(),
	}
}

// WithPharmacyTools registers the full pharmacy tool set backed by the
// given service.
func (b *ToolRegistryBuilder) WithPharmacyTools(service *pharmacy.Service) *ToolRegistryBuilder {
	b.registry.Register(getMedicinesDefinition(), NewGetMedicinesTool(service))
	b.registry.Register(getPatientOrdersDefinition(), NewGetPatientOrdersTool(service))
	b.registry.Register(createOrderDraftDefinition(), NewCreateOrderDraftTool(service))
	b.registry.Register(finalizeOrderDefinition(), NewFinalizeOrderTool(service))
	b.registry.Register(createRefillAlertDefinition(), NewCreateRefillAlertTool(service))
	b.registry.Register(getRefillAlertsDefinition(), NewGetRefillAlertsTool(service))
	b.registry.Register(logNotificationDefinition(), NewLogNotificationTool(service))
	return b
}

// Build returns the constructed tool registry.
func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}

// BuildPharmacyRegistry is a convenience method for the standard agent
// tool set.
func BuildPharmacyRegistry(service *pharmacy.Service) *ToolRegistry {
	return NewToolRegistryBuilder().
		WithPharmacyTools(service).
		Build()
}
