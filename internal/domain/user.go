package domain

import "time"

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	BrandID      string    `json:"brand_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin         UserRole = "admin"
	RoleBrand         UserRole = "brand"
	RoleServiceCenter UserRole = "service_center"
	RoleDistributor   UserRole = "distributor"
)

// Valid informa se o papel é conhecido.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleBrand, RoleServiceCenter, RoleDistributor:
		return true
	}
	return false
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
	BrandID  string   `json:"brand_id"`
}

// UserLogin representa o payload de entrada para o login.
type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Principal é o usuário autenticado da requisição (extraído do JWT).
type Principal struct {
	UserID  string
	Role    UserRole
	BrandID string
}

// IsAdmin informa se o usuário tem papel de administrador.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
