package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across handlers; the validator caches struct metadata
// and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a request DTO against its `validate` struct tags.
// The returned error message is safe to surface to API clients.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, len(errs))
	for i, fe := range errs {
		messages[i] = fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}
