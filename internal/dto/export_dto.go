package dto

import "github.com/shopspring/decimal"

// SessionExport is the canonical interchange artifact produced when a closed
// session is exported for offline transfer. Field names are camelCase to stay
// byte-compatible with files produced by earlier terminal versions.
type SessionExport struct {
	Version    string          `json:"version"`
	ExportDate string          `json:"exportDate"`
	Session    ExportedSession `json:"session"`
	Sales      []ExportedSale  `json:"sales"`
}

type ExportedSession struct {
	ID               string           `json:"id"`
	CashRegisterID   string           `json:"cashRegisterId"`
	CashRegisterName string           `json:"cashRegisterName"`
	EmployeeID       *string          `json:"employeeId"`
	EmployeeName     string           `json:"employeeName"`
	OpenedAt         string           `json:"openedAt"`
	ClosedAt         *string          `json:"closedAt"`
	OpeningBalance   decimal.Decimal  `json:"openingBalance"`
	ClosingBalance   *decimal.Decimal `json:"closingBalance"`
	ExpectedBalance  decimal.Decimal  `json:"expectedBalance"`
	TotalSales       int              `json:"totalSales"`
	TotalCash        decimal.Decimal  `json:"totalCash"`
	TotalCard        decimal.Decimal  `json:"totalCard"`
	Status           string           `json:"status"`
}

type ExportedSale struct {
	ID               string             `json:"id"`
	SessionID        string             `json:"sessionId"`
	CashRegisterID   string             `json:"cashRegisterId"`
	CashRegisterName string             `json:"cashRegisterName"`
	EmployeeID       *string            `json:"employeeId"`
	EmployeeName     string             `json:"employeeName"`
	Date             string             `json:"date"`
	Items            []ExportedSaleItem `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	Total            decimal.Decimal    `json:"total"`
	PaymentMethod    string             `json:"paymentMethod"`
	ReceivedAmount   *decimal.Decimal   `json:"receivedAmount"`
	Change           *decimal.Decimal   `json:"change"`
}

type ExportedSaleItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	AppliedPrice decimal.Decimal `json:"appliedPrice"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

type ImportResultResponse struct {
	SessionID     string `json:"session_id"`
	SalesImported int    `json:"sales_imported"`
	SalesSkipped  int    `json:"sales_skipped"`
}
