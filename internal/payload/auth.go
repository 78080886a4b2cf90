package payload

// SignupRequest is the body of POST /users/signup. PasswordConfirm is only
// compared against Password during validation and is discarded afterwards.
type SignupRequest struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=10"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the body of POST /users/forgotPassword.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of PATCH /users/resetPassword/{token}.
type ResetPasswordRequest struct {
	Password        string `json:"password"        validate:"required,min=10"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest is the body of PATCH /users/updateMyPassword.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password"        validate:"required,min=10"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}
