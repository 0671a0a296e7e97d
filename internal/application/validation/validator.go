package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/almacen-api/internal/domain"
)

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores se reportan con el nombre JSON del campo, que es lo que conoce el cliente.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	return v
}

// Check valida s con los tags `validate` y devuelve los errores agrupados por campo.
// Nunca devuelve nil; usar HasErrors/OrNil. Entra en pánico si s no es un struct (error de programación).
func Check(s any) *domain.ValidationError {
	ve := domain.NewValidationError()
	err := validate.Struct(s)
	if err == nil {
		return ve
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		panic(fmt.Sprintf("validation: %v", err))
	}
	for _, fe := range fieldErrs {
		ve.Add(fieldPath(fe), message(fe))
	}
	return ve
}

// Struct valida s y devuelve nil o un *domain.ValidationError.
func Struct(s any) error {
	return Check(s).OrNil()
}

// fieldPath quita el nombre del struct raíz: "CreateLoanRequest.borrower.phone" -> "borrower.phone".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "len":
		if isString {
			return fmt.Sprintf("debe tener exactamente %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser igual a %s", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("no debe superar %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "digits":
		return "debe contener solo dígitos"
	case "alphanum":
		return "debe contener solo letras y números"
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "debe tener formato AAAA-MM-DD"
	case "uuid":
		return "debe ser un identificador válido"
	}
	return "es inválido"
}
