package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

const (
	msgUsernameTaken = "That username is taken. Please choose a different one."
	msgEmailTaken    = "That email is taken. Please choose a different one."
	msgNoSuchAccount = "There is no account with that email. You must register first."
	msgPicture       = "File does not have an approved extension: jpg, png"
	msgPage          = "Page must be a positive integer."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the `validate` tags of s and returns every failing field.
// The result is never nil; use ErrOrNil to turn it into an error.
func validateStruct(s interface{}) *domain.ValidationError {
	verr := &domain.ValidationError{}
	var fieldErrs validator.ValidationErrors
	if err := validate.Struct(s); errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), messageFor(fe))
		}
	}
	return verr
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "eqfield":
		return "Field must be equal to password."
	default:
		return "Invalid value."
	}
}

// checkUnique adds a field error for each of username and email that already belongs
// to an account. An empty value skips that check.
func checkUnique(ctx context.Context, repo domain.UserRepository, verr *domain.ValidationError, username, email string) error {
	if username != "" && !verr.Has("username") {
		taken, err := exists(repo.GetByUsername(ctx, username))
		if err != nil {
			return err
		}
		if taken {
			verr.Add("username", msgUsernameTaken)
		}
	}
	if email != "" && !verr.Has("email") {
		taken, err := exists(repo.GetByEmail(ctx, email))
		if err != nil {
			return err
		}
		if taken {
			verr.Add("email", msgEmailTaken)
		}
	}
	return nil
}

func exists(_ *domain.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check uniqueness: %w", err)
}
