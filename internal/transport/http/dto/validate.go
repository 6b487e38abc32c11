package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("email") instead of Go field names ("Email").
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	// bcrypt counts bytes, not runes.
	if err := validate.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= domain.MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	if err := validate.RegisterTranslation("pwbytes", trans,
		func(ut ut.Translator) error {
			return ut.Add("pwbytes", "{0} must be at most 72 bytes", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("pwbytes", fe.Field())
			return msg
		},
	); err != nil {
		panic(err)
	}
}

// validateStruct runs tag validation and folds every failure into one
// validation_failed error with a readable message.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrValidation(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return domain.ErrValidation(strings.Join(msgs, "; "))
}
