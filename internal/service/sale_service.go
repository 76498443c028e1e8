package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

type SaleService interface {
	// RegisterAtTerminal records a sale against the register's open session.
	// The caller has already resolved the register from its access token.
	RegisterAtTerminal(ctx context.Context, reg *model.CashRegister, req dto.RegisterSaleRequest) (*dto.SaleResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.SaleResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	sessions     SessionService
	registerRepo repository.RegisterRepository
	productRepo  repository.ProductRepository
	loyalty      LoyaltyService
}

func NewSaleService(
	repo repository.SaleRepository,
	sessions SessionService,
	registerRepo repository.RegisterRepository,
	productRepo repository.ProductRepository,
	loyalty LoyaltyService,
) SaleService {
	return &saleService{
		repo:         repo,
		sessions:     sessions,
		registerRepo: registerRepo,
		productRepo:  productRepo,
		loyalty:      loyalty,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegisterAtTerminal ────────────────────────────────────────────────────────
//  1. Gate: register must be open with an open session
//  2. Resolve products, pick the cash or card price list, compute totals
//  3. Cash tenders: validate received amount, compute change
//  4. BEGIN TX: create sale+items, decrement stock, bump drawer balance
//  5. Recompute session totals from the stored sales
//  6. Award loyalty points when a customer QR was scanned

func (s *saleService) RegisterAtTerminal(ctx context.Context, reg *model.CashRegister, req dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if !reg.IsActive {
		return nil, ErrRegisterClosed
	}
	session, err := s.sessions.FindOpen(ctx, reg.ID)
	if err != nil {
		return nil, err
	}

	// Resolve products and calculate totals (pre-flight, outside TX)
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		category  string
		price     decimal.Decimal
		quantity  int
		lineTotal decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero
	itemCount := 0

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id invalid: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, reg.CompanyID, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}

		price := p.CardPrice
		if req.PaymentMethod == model.PaymentCash {
			price = p.CashPrice
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		itemCount += item.Quantity
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			category:  p.Category,
			price:     price,
			quantity:  item.Quantity,
			lineTotal: lineTotal,
		})
	}

	total := subtotal

	var receivedAmount, change *decimal.Decimal
	if req.PaymentMethod == model.PaymentCash {
		if req.ReceivedAmount == nil {
			return nil, ErrInsufficientPayment
		}
		if req.ReceivedAmount.LessThan(total) {
			return nil, ErrInsufficientPayment
		}
		c := req.ReceivedAmount.Sub(total)
		receivedAmount = req.ReceivedAmount
		change = &c
	}

	sale := model.Sale{
		ID:               uuid.New(),
		CompanyID:        reg.CompanyID,
		SessionID:        session.ID,
		CashRegisterID:   reg.ID,
		CashRegisterName: reg.Name,
		EmployeeID:       reg.EmployeeID,
		EmployeeName:     reg.EmployeeName,
		Date:             time.Now().UTC(),
		Subtotal:         subtotal,
		Total:            total,
		PaymentMethod:    req.PaymentMethod,
		ReceivedAmount:   receivedAmount,
		Change:           change,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ID:           uuid.New(),
			SaleID:       sale.ID,
			ProductID:    r.productID,
			ProductName:  r.name,
			Category:     r.category,
			Quantity:     r.quantity,
			AppliedPrice: r.price,
			LineTotal:    r.lineTotal,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}
		for _, r := range resolved {
			if err := s.productRepo.UpdateStockTx(tx, r.productID, -r.quantity); err != nil {
				return fmt.Errorf("decrementing stock of %s: %w", r.name, err)
			}
		}
		// Only cash enters the drawer.
		if req.PaymentMethod == model.PaymentCash {
			if err := s.registerRepo.AddToBalanceTx(tx, reg.ID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Recompute rather than increment: repeating this after any hiccup always
	// converges to the stored sales.
	if _, err := s.sessions.RefreshTotals(ctx, session.ID); err != nil {
		log.Error().Err(err).Str("session_id", session.ID.String()).Msg("refreshing session totals after sale")
	}

	resp := saleToResponse(&sale)

	if req.CustomerQR != nil && *req.CustomerQR != "" {
		points, err := s.loyalty.AwardPoints(ctx, reg.CompanyID, *req.CustomerQR, &sale, itemCount)
		if err != nil {
			// A loyalty failure never voids a completed sale.
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("awarding loyalty points")
		} else {
			resp.Points = points
		}
	}

	return resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:    item.ProductID.String(),
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			AppliedPrice: item.AppliedPrice,
			LineTotal:    item.LineTotal,
		})
	}
	return &dto.SaleResponse{
		ID:               v.ID.String(),
		SessionID:        v.SessionID.String(),
		CashRegisterID:   v.CashRegisterID.String(),
		CashRegisterName: v.CashRegisterName,
		EmployeeName:     v.EmployeeName,
		Date:             v.Date.Format(time.RFC3339),
		Items:            items,
		Subtotal:         v.Subtotal,
		Total:            v.Total,
		PaymentMethod:    v.PaymentMethod,
		ReceivedAmount:   v.ReceivedAmount,
		Change:           v.Change,
	}
}
