package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	mu      sync.Mutex
	customs = map[string]validator.Func{}
	std     *validator.Validate
)

// Register adds a custom tag to the shared validator and to any engine
// configured afterwards by Init.
func Register(tag string, fn func(string) bool) {
	f := func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		s := fl.Field().String()
		// empty values are left to "required"
		return s == "" || fn(s)
	}
	mu.Lock()
	defer mu.Unlock()
	customs[tag] = f
	if std != nil {
		_ = std.RegisterValidation(tag, f)
	}
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=8")
	v.RegisterAlias("phone", "e164")
	for tag, fn := range customs {
		_ = v.RegisterValidation(tag, fn)
	}
}

// Init configures the validator used by Gin's binding with the same
// tag names, aliases and custom tags as Struct.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		mu.Lock()
		configure(v)
		mu.Unlock()
	}
}

// Struct validates `validate` tags on s.
func Struct(s any) error {
	mu.Lock()
	if std == nil {
		std = validator.New(validator.WithRequiredStructEnabled())
		configure(std)
	}
	v := std
	mu.Unlock()
	return v.Struct(s)
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + param + " is present"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "e164", "phone":
		return "must be a valid phone number"
	case "json":
		return "must be valid JSON"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gt", "gtfield":
		return "must be greater than " + param
	case "gte", "gtefield":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "pwd":
		return "min length 8"
	case "role":
		return "must be one of: BROKER, CUSTOMER, CARRIER"
	case "loadstatus":
		return "must be one of: PENDING, ASSIGNED, IN_TRANSIT, DELIVERED, CANCELLED"
	case "channeltype":
		return "must be one of: EMAIL, SMS, CHAT, PHONE"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
