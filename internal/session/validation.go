package session

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var credentialsValidator = validator.New()

// ValidateCredentials checks login form input and returns the message for the first
// failing field, or "" when the input is acceptable. The Manager itself does not
// validate; binders call this before submitting.
func ValidateCredentials(email, password string) string {
	if strings.TrimSpace(password) == "" {
		password = ""
	}
	err := credentialsValidator.Struct(credentials{Email: strings.TrimSpace(email), Password: password})
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgUnexpected
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Email":
		if fe.Tag() == "required" {
			return msgEmailRequired
		}
		return msgEmailInvalid
	case "Password":
		if fe.Tag() == "required" {
			return msgPasswordRequired
		}
		return msgPasswordTooShort
	}
	return msgUnexpected
}
