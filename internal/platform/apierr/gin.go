package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gestion-activos-backend/internal/platform/dates"
	"gestion-activos-backend/internal/platform/logger"
)

// Respond writes err as the JSON error envelope. Anything that is not an
// *APIError, or is INTERNAL, is logged with the request logger.
func Respond(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status >= 500 {
		logger.FromGin(c).Error("request failed", zap.Error(err))
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, BodyFor(err))
}

// FromBind translates a gin binding error into a VALIDATION error with a
// message a client can show.
func FromBind(err error) *APIError {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return Invalid(fieldMessage(ve[0]))
	}
	var dateErr *dates.ParseError
	if errors.As(err, &dateErr) {
		return Invalid(dateErr.Error())
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Invalidf("El campo %s tiene un tipo inválido", typeErr.Field)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Invalid("JSON mal formado")
	}
	if errors.Is(err, io.EOF) {
		return Invalid("El cuerpo de la petición está vacío")
	}
	// encoding/json reports disallowed fields only as text.
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		return Invalidf("Campo desconocido %s", strings.TrimPrefix(msg, "json: unknown field "))
	}
	return Invalid("Petición inválida")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("El campo %s es obligatorio", fe.Field())
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("El campo %s admite como máximo %s caracteres", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("El campo %s debe ser mayor que %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("El campo %s debe tener formato %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("El campo %s no es válido", fe.Field())
	}
}

// SetupBinding configures gin's validator: JSON names in messages, the
// notblank tag, and rejection of unknown JSON fields.
func SetupBinding() error {
	binding.EnableDecoderDisallowUnknownFields = true

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v.RegisterValidation("notblank", notBlank)
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.String:
		return strings.TrimSpace(f.String()) != ""
	case reflect.Ptr:
		if f.IsNil() {
			return false
		}
		if f.Elem().Kind() == reflect.String {
			return strings.TrimSpace(f.Elem().String()) != ""
		}
		return true
	default:
		return !f.IsZero()
	}
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, Invalidf("El parámetro %s debe ser un número", name)
	}
	return id, nil
}
