package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name      string          `json:"name"       validate:"required,min=1"`
	CashPrice decimal.Decimal `json:"cash_price" validate:"min=0"`
	CardPrice decimal.Decimal `json:"card_price" validate:"min=0"`
	Category  string          `json:"category"   validate:"required"`
	Image     string          `json:"image"`
	Stock     int             `json:"stock"      validate:"min=0"`
}

// ProductPatch carries named optional fields: nil means "leave unchanged".
// Updates never pass through an untyped key-bag merge.
type ProductPatch struct {
	Name      *string          `json:"name"       validate:"omitempty,min=1"`
	CashPrice *decimal.Decimal `json:"cash_price"`
	CardPrice *decimal.Decimal `json:"card_price"`
	Category  *string          `json:"category"`
	Image     *string          `json:"image"`
	Stock     *int             `json:"stock"      validate:"omitempty,min=0"`
}

type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CashPrice decimal.Decimal `json:"cash_price"`
	CardPrice decimal.Decimal `json:"card_price"`
	Category  string          `json:"category"`
	Image     string          `json:"image"`
	Stock     int             `json:"stock"`
}

type ProductFilter struct {
	Name     string
	Category string
	Page     int
	Limit    int
}
