// Package form binds and validates the HTML forms the app serves. Shape
// rules (required, length, charset) live here as validator struct tags;
// rules that need the database — slug uniqueness, username availability —
// live in the service layer, which attaches its errors to the same
// field-keyed map so templates render both kinds identically.
package form

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every form. validator.Validate caches struct
// metadata internally and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("slugchars", slugChars); err != nil {
		panic(fmt.Sprintf("form: registering slugchars validator: %v", err))
	}
	return v
}

// slugRe is the charset a slug may use: letters, digits, hyphens and
// underscores. It keeps slugs safe to embed in URL paths unescaped.
var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func slugChars(fl validator.FieldLevel) bool {
	return slugRe.MatchString(fl.Field().String())
}

// fieldErrors converts a validator error into a field→message map. The
// messages are what the templates show next to each input, so they speak
// to the user, not the developer.
func fieldErrors(err error, messages map[string]string) map[string]string {
	out := make(map[string]string)

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out[""] = "invalid form submission"
		return out
	}

	for _, fe := range errs {
		key := fe.Field() + "." + fe.Tag()
		if msg, ok := messages[key]; ok {
			out[fe.Field()] = msg
		} else {
			out[fe.Field()] = "invalid value"
		}
	}

	return out
}
