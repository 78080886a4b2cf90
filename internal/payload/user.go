package payload

// UpdateMeRequest is the body of PATCH /users/updateMe. Password fields are
// declared only so their presence can be rejected; password updates go
// through /users/updateMyPassword.
type UpdateMeRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// HasPasswordFields reports whether the client tried to change the password
// through the profile route.
func (r *UpdateMeRequest) HasPasswordFields() bool {
	return r.Password != "" || r.PasswordConfirm != ""
}
