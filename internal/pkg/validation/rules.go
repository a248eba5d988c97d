package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Phone numbers: digits, spaces and ()+-. separators, at least 7 characters
	PhonePattern = `^[0-9()+\-.\s]{7,}$`

	// 24h clock time
	TimePattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`

	// Calendar day layout
	DateLayout = "2006-01-02"
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone *regexp.Regexp
	Time  *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
	Time:  regexp.MustCompile(TimePattern),
}

// IsEventDate reports whether s is a valid yyyy-MM-dd day
func IsEventDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsEventTime reports whether s is a valid HH:MM time
func IsEventTime(s string) bool {
	return CompiledPatterns.Time.MatchString(s)
}

// IsPhone reports whether s looks like a phone number
func IsPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}

// Register adds the custom tags to v and makes field errors use JSON names
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	rules := map[string]validator.Func{
		"eventdate": func(fl validator.FieldLevel) bool { return IsEventDate(fl.Field().String()) },
		"eventtime": func(fl validator.FieldLevel) bool { return IsEventTime(fl.Field().String()) },
		"phone":     func(fl validator.FieldLevel) bool { return IsPhone(fl.Field().String()) },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterWithGin installs the custom tags on gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

// StringValidation validates one free-form value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation. Surrounding whitespace is ignored.
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)

	if value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}
	return true
}
