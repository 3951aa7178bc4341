package user

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name     string `validate:"required,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Name string
}

// LoginRequest is the payload for authenticating an existing account.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse carries the profile name and a freshly issued access token.
type LoginResponse struct {
	Name        string
	AccessToken string
}

// ProfileResponse is the profile of the authenticated user.
type ProfileResponse struct {
	Name  string
	Email string
}

// UpdateRequest is the payload for changing name and email.
type UpdateRequest struct {
	Name  string `validate:"required,max=50"`
	Email string `validate:"required,email"`
}

// ChangePasswordRequest is the payload for replacing the stored password.
type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string `validate:"required,min=6"`
}
