package form

import "net/http"

// SignupForm carries the registration form fields. Username availability
// is checked in the service against the user store.
type SignupForm struct {
	Username string `validate:"required,max=150,alphanum"`
	Password string `validate:"required,min=8,max=72"`

	Errors map[string]string `validate:"-"`
}

var signupMessages = map[string]string{
	"Username.required": "username is required",
	"Username.max":      "username must be 150 characters or fewer",
	"Username.alphanum": "username may only contain letters and digits",
	"Password.required": "password is required",
	"Password.min":      "password must be at least 8 characters",
	"Password.max":      "password must be 72 characters or fewer",
}

// ParseSignupForm binds a SignupForm from a POST body.
func ParseSignupForm(r *http.Request) *SignupForm {
	return &SignupForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Errors:   map[string]string{},
	}
}

// Validate checks the shape rules. Returns true when the form is clean.
func (f *SignupForm) Validate() bool {
	if err := validate.Struct(f); err != nil {
		f.Errors = fieldErrors(err, signupMessages)
		return false
	}
	f.Errors = map[string]string{}
	return true
}

// Valid reports whether the form currently has no errors.
func (f *SignupForm) Valid() bool {
	return len(f.Errors) == 0
}

// LoginForm carries the login form fields. Deliberately looser than
// signup: whatever the user typed goes to the credential check, which
// answers with one generic message on any failure.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`

	Errors map[string]string `validate:"-"`
}

var loginMessages = map[string]string{
	"Username.required": "username is required",
	"Password.required": "password is required",
}

// ParseLoginForm binds a LoginForm from a POST body.
func ParseLoginForm(r *http.Request) *LoginForm {
	return &LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Errors:   map[string]string{},
	}
}

// Validate checks that both fields are present.
func (f *LoginForm) Validate() bool {
	if err := validate.Struct(f); err != nil {
		f.Errors = fieldErrors(err, loginMessages)
		return false
	}
	f.Errors = map[string]string{}
	return true
}

// Valid reports whether the form currently has no errors.
func (f *LoginForm) Valid() bool {
	return len(f.Errors) == 0
}
