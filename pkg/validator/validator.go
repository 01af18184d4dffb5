// Package validator envuelve go-playground/validator para los DTO de entrada.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wrapper inyectable sobre *validator.Validate.
type Validator struct {
	v *validator.Validate
}

// New crea un Validator. Los campos decimal.Decimal se validan como float64,
// así que admiten tags numéricos (gt=0, gte=0, lte=1...).
func New() *Validator {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	return &Validator{v: v}
}

func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}

// Struct valida un struct según sus tags `validate`.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Message convierte un error de validación en un texto corto para dto.ErrorResponse.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
