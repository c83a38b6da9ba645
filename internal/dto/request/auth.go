package request

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`

	Client ClientInfo `json:"-"`
}

// LoginRequest accepts either the username or the email in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`

	Client ClientInfo `json:"-"`
}

// ClientInfo is recorded on the session issued for the request.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
