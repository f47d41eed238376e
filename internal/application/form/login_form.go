package form

// LoginForm carries the raw sign-in values
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// ValidLogin reports whether f has the shape of a credentials submission
func (v *Validator) ValidLogin(f LoginForm) bool {
	return v.validate.Struct(f) == nil
}
