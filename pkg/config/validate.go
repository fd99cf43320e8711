package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/standardize/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("reponame", func(fl validator.FieldLevel) bool {
		return errors.ValidateRepositoryName(fl.Field().String()) == nil
	})
	_ = validate.RegisterValidation("entryname", func(fl validator.FieldLevel) bool {
		return errors.ValidateEntryName(fl.Field().String()) == nil
	})
	_ = validate.RegisterValidation("cloneurl", func(fl validator.FieldLevel) bool {
		return errors.ValidateURL(fl.Field().String()) == nil
	})
}

// Validate checks every field of c. Violations are returned as a single
// error with code ErrCodeInvalidConfig listing each offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = describe(fe)
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s item(s)", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got %v)", field, fe.Param(), fe.Value())
	case "reponame":
		return fmt.Sprintf("%s: %q is not a valid repository name", field, fe.Value())
	case "entryname":
		return fmt.Sprintf("%s: %q is not a valid entry name", field, fe.Value())
	case "cloneurl":
		return fmt.Sprintf("%s: %q is not a valid URL", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
