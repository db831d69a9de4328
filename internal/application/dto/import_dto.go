package dto

// RejectedRow one import row that was skipped, with the reason.
type RejectedRow struct {
	Row    int    `json:"row"` // 1-based data row number, header excluded
	Reason string `json:"reason"`
}

// ImportReport outcome of a bulk import. Rejected rows never abort the batch.
type ImportReport struct {
	Accepted int           `json:"accepted"`
	Rejected []RejectedRow `json:"rejected"`
}
