package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	CompanyCode string `json:"company_code" validate:"required"`
	Username    string `json:"username"     validate:"required"`
	Password    string `json:"password"     validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterCompanyRequest struct {
	Name          string `json:"name"           validate:"required,min=2"`
	Subdomain     string `json:"subdomain"      validate:"required,lowercase,alphanum"`
	AdminUsername string `json:"admin_username" validate:"required,min=3"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
	CompanyEmail  string `json:"company_email"  validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	CompanyID    string `json:"company_id"`
	CompanyName  string `json:"company_name"`
	Username     string `json:"username"`
}

type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	Code      string `json:"code"`
	Plan      string `json:"plan"`
}
