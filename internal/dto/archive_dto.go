package dto

type ArchiveResultResponse struct {
	SessionsArchived int64 `json:"sessions_archived"`
	SalesArchived    int64 `json:"sales_archived"`
}

// ArchivedDataResponse bundles the two archived collections the back-office
// history view consumes. Filtering is strictly by archived_at.
type ArchivedDataResponse struct {
	Sales    []SaleResponse    `json:"sales"`
	Sessions []SessionResponse `json:"sessions"`
}
