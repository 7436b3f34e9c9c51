// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// UserEmailKey is the context key for the verified principal's email
	UserEmailKey = "userEmail"
	// SubjectKey is the context key for the verified principal's subject id
	SubjectKey = "subject"
	// UserRoleKey is the context key for the role resolved by the role guard
	UserRoleKey = "userRole"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
