package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Enum registers a custom tag that accepts only the listed string values.
type Enum struct {
	Tag    string
	Values []string
}

// Validator pairs a validator instance with its English translator.
type Validator struct {
	*validator.Validate
	translator ut.Translator
}

// New returns a validator that reports JSON field names, knows the given enum
// tags and renders English messages.
func New(enums ...Enum) *Validator {
	validate := validator.New()
	locale := en.New()
	translator, _ := ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, enum := range enums {
		allowed := make(map[string]struct{}, len(enum.Values))
		for _, v := range enum.Values {
			allowed[v] = struct{}{}
		}
		_ = validate.RegisterValidation(enum.Tag, func(fl validator.FieldLevel) bool {
			_, ok := allowed[fl.Field().String()]
			return ok
		})
		registerTranslation(validate, translator, enum.Tag, "{0} must be one of "+strings.Join(enum.Values, ", "))
	}

	return &Validator{Validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Describe renders validation failures as a single sorted, semicolon separated
// message. Other errors are returned verbatim.
func (v *Validator) Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(v.translator))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
