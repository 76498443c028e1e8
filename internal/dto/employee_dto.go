package dto

type CreateEmployeeRequest struct {
	Name  string `json:"name"  validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
	Role  string `json:"role"  validate:"required,oneof=cashier admin"`
}

type EmployeePatch struct {
	Name     *string `json:"name"  validate:"omitempty,min=2"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"  validate:"omitempty,oneof=cashier admin"`
	IsActive *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}
