// Package validator validates structs by the "validate" tags, messages are translated to English.
package validator

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

type Validation struct {
	Tag  string
	Func validator.Func
	// ErrorMsg is used as the translation of the tag, "{0}" is replaced by the field name.
	ErrorMsg string
}

// Validate a struct, each error message is prefixed by the namespace of the field.
func Validate(ctx context.Context, value any, rules ...Validation) error {
	validate, enTranslator := newValidator(rules...)

	if err := validate.StructCtx(ctx, value); err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			return processValidateError(validationErrs, enTranslator)
		default:
			panic(err)
		}
	}

	return nil
}

func newValidator(rules ...Validation) (*validator.Validate, ut.Translator) {
	validate := validator.New()

	// Register default EN translator
	enLocale := en.New()
	enTranslator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(errors.New("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(validate, enTranslator); err != nil {
		panic(errors.Errorf("translator was not registered: %w", err))
	}

	// Register custom validation rules
	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.Tag, rule.Func); err != nil {
			panic(err)
		}
		if rule.ErrorMsg != "" {
			registerTranslation(validate, enTranslator, rule.Tag, rule.ErrorMsg)
		}
	}

	// Set "__nested__" name for anonymous fields, so they can be removed from the error namespace.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if fld.Anonymous {
			return "__nested__"
		}

		// Use YAML field name in error messages, it is the name used in the config file
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return validate, enTranslator
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, msg string) {
	register := func(ut ut.Translator) error {
		return ut.Add(tag, msg, true)
	}
	translate := func(ut ut.Translator, fe validator.FieldError) string {
		t, err := ut.T(tag, fe.Field())
		if err != nil {
			panic(err)
		}
		return t
	}
	if err := validate.RegisterTranslation(tag, translator, register, translate); err != nil {
		panic(err)
	}
}

// Remove struct name (first part), field name (last part) and __nested__ parts.
func processNamespace(namespace string) string {
	namespace = strings.ReplaceAll(namespace, `__nested__.`, ``)
	parts := strings.Split(namespace, ".")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[1:len(parts)-1], ".")
}

func processValidateError(err validator.ValidationErrors, translator ut.Translator) error {
	result := errors.NewMultiError()
	for _, e := range err {
		// Prefix error message by field namespace
		prefix := ""
		if namespace := processNamespace(e.Namespace()); namespace != "" {
			prefix = fmt.Sprintf("%s.", namespace)
		}
		result.Append(errors.Errorf("%s%s", prefix, e.Translate(translator)))
	}

	return result.ErrorOrNil()
}
