package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	emailShape   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	expiryFormat = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

const minCardDigits = 16

// labels are the human names used in messages, per json field name.
var labels = map[string]string{
	"firstName":  "First name",
	"lastName":   "Last name",
	"email":      "Email",
	"address":    "Address",
	"city":       "City",
	"state":      "State",
	"zip":        "ZIP code",
	"cardNumber": "Card number",
	"expiry":     "Expiry date",
	"cvv":        "CVV",
	"cardName":   "Cardholder name",
}

// Validator checks a whole Form and reports every violation at once.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "cardnumber", func(fl validator.FieldLevel) bool {
		digits := strings.ReplaceAll(fl.Field().String(), " ", "")
		return len(digits) >= minCardDigits && strings.IndexFunc(digits, notDigit) < 0
	})
	mustRegister(v, "expiry", func(fl validator.FieldLevel) bool {
		return expiryFormat.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "cvv", func(fl validator.FieldLevel) bool {
		return len(strings.Map(keepDigit, fl.Field().String())) >= 3
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate returns a message per invalid field; an empty map means the form is valid.
// Shipping fields are only checked when the order does not ship to the billing address.
func (v *Validator) Validate(form Form) map[string]string {
	fields := make(map[string]string)
	v.section(fields, "billing", form.Billing)
	if !form.SameAsBilling {
		v.section(fields, "shipping", form.Shipping)
	}
	v.section(fields, "payment", form.Payment)
	return fields
}

func (v *Validator) section(dst map[string]string, prefix string, s any) {
	err := v.validate.Struct(s)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return
	}
	for _, fe := range ve {
		dst[prefix+"."+fe.Field()] = message(fe)
	}
}

func message(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	if fe.Tag() == "notblank" {
		return label + " is required"
	}
	return label + " is invalid"
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}

func keepDigit(r rune) rune {
	if notDigit(r) {
		return -1
	}
	return r
}
