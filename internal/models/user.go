package models

// UserType is the role of a marketplace account.
type UserType string

const (
	UserTypeFarmer UserType = "FARMER"
	UserTypeBuyer  UserType = "BUYER"
)

// Identity represents the authenticated user as returned by the backend.
type Identity struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	UserType    UserType `json:"user_type"`
	PhoneNumber string   `json:"phone_number"`
	Address     string   `json:"address"`
}

// IsFarmer reports whether the identity sells products.
func (i *Identity) IsFarmer() bool {
	return i != nil && i.UserType == UserTypeFarmer
}

// IsBuyer reports whether the identity buys products.
func (i *Identity) IsBuyer() bool {
	return i != nil && i.UserType == UserTypeBuyer
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the registration profile sent to the backend.
type RegisterRequest struct {
	Username    string   `json:"username" validate:"required,min=3,max=150"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	FirstName   string   `json:"first_name" validate:"required"`
	LastName    string   `json:"last_name" validate:"required"`
	PhoneNumber string   `json:"phone_number" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	UserType    UserType `json:"user_type" validate:"required,oneof=FARMER BUYER"`
}
