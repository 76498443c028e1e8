package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
	"github.com/modulartear/posventa/internal/repository"
)

type EmployeeService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	List(ctx context.Context, companyID uuid.UUID) ([]dto.EmployeeResponse, error)
	ListActiveCashiers(ctx context.Context, companyID uuid.UUID) ([]dto.EmployeeResponse, error)
	Get(ctx context.Context, companyID, id uuid.UUID) (*dto.EmployeeResponse, error)
	Patch(ctx context.Context, companyID, id uuid.UUID, req dto.EmployeePatch) (*dto.EmployeeResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
}

type employeeService struct {
	repo        repository.EmployeeRepository
	companyRepo repository.CompanyRepository
}

func NewEmployeeService(repo repository.EmployeeRepository, companyRepo repository.CompanyRepository) EmployeeService {
	return &employeeService{repo: repo, companyRepo: companyRepo}
}

func (s *employeeService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if count >= int64(company.MaxEmployees) {
		return nil, fmt.Errorf("%w: plan %s allows %d employees", ErrPlanLimitReached, company.Plan, company.MaxEmployees)
	}

	e := &model.Employee{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	resp := employeeToResponse(e)
	return &resp, nil
}

func (s *employeeService) List(ctx context.Context, companyID uuid.UUID) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return employeesToResponse(employees), nil
}

func (s *employeeService) ListActiveCashiers(ctx context.Context, companyID uuid.UUID) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.ListActiveCashiers(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return employeesToResponse(employees), nil
}

func (s *employeeService) Get(ctx context.Context, companyID, id uuid.UUID) (*dto.EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := employeeToResponse(e)
	return &resp, nil
}

func (s *employeeService) Patch(ctx context.Context, companyID, id uuid.UUID, req dto.EmployeePatch) (*dto.EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Email != nil {
		e.Email = *req.Email
	}
	if req.Phone != nil {
		e.Phone = *req.Phone
	}
	if req.Role != nil {
		e.Role = *req.Role
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := employeeToResponse(e)
	return &resp, nil
}

func (s *employeeService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, companyID, id)
}

func employeesToResponse(employees []model.Employee) []dto.EmployeeResponse {
	resp := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, employeeToResponse(&employees[i]))
	}
	return resp
}

func employeeToResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Role:      e.Role,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
