package constants

// User roles. Kept here so middleware can enforce them without
// depending on the users package.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
