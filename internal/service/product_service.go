package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

type ProductService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]dto.ProductResponse, int64, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error)
	Patch(ctx context.Context, companyID, id uuid.UUID, req dto.ProductPatch) (*dto.ProductResponse, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type productService struct {
	repo        repository.ProductRepository
	companyRepo repository.CompanyRepository
}

func NewProductService(repo repository.ProductRepository, companyRepo repository.CompanyRepository) ProductService {
	return &productService{repo: repo, companyRepo: companyRepo}
}

func (s *productService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if count >= int64(company.MaxProducts) {
		return nil, fmt.Errorf("%w: plan %s allows %d products", ErrPlanLimitReached, company.Plan, company.MaxProducts)
	}

	p := &model.Product{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      req.Name,
		CashPrice: req.CashPrice,
		CardPrice: req.CardPrice,
		Category:  req.Category,
		Image:     req.Image,
		Stock:     req.Stock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]dto.ProductResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	products, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, productToResponse(&products[i]))
	}
	return resp, total, nil
}

func (s *productService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Patch(ctx context.Context, companyID, id uuid.UUID, req dto.ProductPatch) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.CashPrice != nil {
		p.CashPrice = *req.CashPrice
	}
	if req.CardPrice != nil {
		p.CardPrice = *req.CardPrice
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.Delete(ctx, companyID, id)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		CashPrice: p.CashPrice,
		CardPrice: p.CardPrice,
		Category:  p.Category,
		Image:     p.Image,
		Stock:     p.Stock,
	}
}
