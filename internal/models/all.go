package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Employee{},
		&Customer{},
		&CustomerLocation{},
		&Service{},
		&Appointment{},
		&RecurringAppointment{},
		&Invoice{},
		&InvoiceItem{},
		&Payment{},
		&Quote{},
		&QuoteItem{},
		&EquipmentCategory{},
		&Equipment{},
		&EquipmentAssignment{},
		&ConsumableUsage{},
		&Review{},
		&Photo{},
		&TimeLog{},
		&WebhookSubscription{},
		&AuditLog{},
	}
}
