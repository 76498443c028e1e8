package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulartear/posventa/internal/dto"
	"github.com/modulartear/posventa/internal/model"
)

func employeeFixture(t *testing.T, maxEmployees int) (uuid.UUID, EmployeeService, *fakeEmployeeRepo) {
	t.Helper()
	companyID := uuid.New()
	companyRepo := newFakeCompanyRepo()
	companyRepo.companies[companyID] = &model.Company{
		ID:           companyID,
		Name:         "Test Co",
		Plan:         "free",
		IsActive:     true,
		MaxEmployees: maxEmployees,
	}
	repo := newFakeEmployeeRepo()
	return companyID, NewEmployeeService(repo, companyRepo), repo
}

func hireEmployee(t *testing.T, svc EmployeeService, companyID uuid.UUID, name, role string) *dto.EmployeeResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), companyID, dto.CreateEmployeeRequest{
		Name:  name,
		Email: name + "@testco.example",
		Role:  role,
	})
	require.NoError(t, err)
	return resp
}

func TestEmployeePlanLimit(t *testing.T) {
	companyID, svc, _ := employeeFixture(t, 2)

	hireEmployee(t, svc, companyID, "ana", "cashier")
	hireEmployee(t, svc, companyID, "bruno", "cashier")

	_, err := svc.Create(context.Background(), companyID, dto.CreateEmployeeRequest{
		Name:  "carla",
		Email: "carla@testco.example",
		Role:  "cashier",
	})
	assert.ErrorIs(t, err, ErrPlanLimitReached)
}

func TestListActiveCashiers(t *testing.T) {
	companyID, svc, _ := employeeFixture(t, 10)

	cashier := hireEmployee(t, svc, companyID, "ana", "cashier")
	hireEmployee(t, svc, companyID, "bruno", "admin")
	retired := hireEmployee(t, svc, companyID, "carla", "cashier")

	require.NoError(t, svc.Deactivate(context.Background(), companyID, uuid.MustParse(retired.ID)))

	cashiers, err := svc.ListActiveCashiers(context.Background(), companyID)
	require.NoError(t, err)
	require.Len(t, cashiers, 1)
	assert.Equal(t, cashier.ID, cashiers[0].ID)
}

func TestEmployeePatchPreservesUnsetFields(t *testing.T) {
	companyID, svc, _ := employeeFixture(t, 10)

	created := hireEmployee(t, svc, companyID, "ana", "cashier")

	newRole := "admin"
	patched, err := svc.Patch(context.Background(), companyID, uuid.MustParse(created.ID), dto.EmployeePatch{
		Role: &newRole,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", patched.Role)
	assert.Equal(t, "ana", patched.Name)
	assert.Equal(t, "ana@testco.example", patched.Email)
	assert.True(t, patched.IsActive)
}

func TestEmployeeTenancy(t *testing.T) {
	companyID, svc, _ := employeeFixture(t, 10)

	created := hireEmployee(t, svc, companyID, "ana", "cashier")

	_, err := svc.Get(context.Background(), uuid.New(), uuid.MustParse(created.ID))
	assert.Error(t, err)
}
