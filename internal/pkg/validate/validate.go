// Package validate wraps a shared go-playground validator instance.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Struct checks the validate tags on s and flattens any violations into a
// single readable error, one clause per failing field.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	clauses := make([]string, 0, len(ve))
	for _, fe := range ve {
		clauses = append(clauses, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(clauses, "; "))
}
