package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Conteos agregados calculados como consultas puras sobre el catálogo y los préstamos.
type DashboardSummaryDTO struct {
	Items            int `json:"items"`
	TotalStock       int `json:"total_stock"`
	OutOfStock       int `json:"out_of_stock"`
	OutstandingLoans int `json:"outstanding_loans"`
}

// ReconciliationItemDTO resultado de recalcular el stock de un artículo desde su historial.
type ReconciliationItemDTO struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	StoredStock   int    `json:"stored_stock"`
	InboundTotal  int    `json:"inbound_total"`
	OutboundTotal int    `json:"outbound_total"`
	ExpectedStock int    `json:"expected_stock"`
	Delta         int    `json:"delta"` // stored - expected; distinto de 0 = deriva
}

// ReconciliationReportDTO resultado de la conciliación de todo el catálogo.
// Drifted solo lista los artículos inconsistentes.
type ReconciliationReportDTO struct {
	Checked    int                     `json:"checked"`
	Consistent bool                    `json:"consistent"`
	Drifted    []ReconciliationItemDTO `json:"drifted"`
}
