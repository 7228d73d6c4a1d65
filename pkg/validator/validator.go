// Package validator wires go-playground/validator into gin binding.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// CustomValidator 实现 gin 的 binding.StructValidator
type CustomValidator struct {
	once     sync.Once
	validate *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 只校验结构体及其指针
func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.validate.RegisterValidation("notblank", validators.NotBlank)
	})
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()
	if valueType == reflect.Pointer {
		valueType = value.Elem().Kind()
	}
	return valueType
}

// Install 替换 gin 默认校验器并注册翻译，返回包含 en/de 的 UniversalTranslator
// 校验器没有德语文案，de 翻译器使用英文文案
func Install() (*ut.UniversalTranslator, error) {
	cv := NewCustomValidator()
	binding.Validator = cv
	validate := cv.Engine().(*validator.Validate)

	uni := ut.New(en.New(), en.New(), de.New())
	for _, locale := range []string{"en", "de"} {
		trans, _ := uni.GetTranslator(locale)
		if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
			return nil, err
		}
		_ = validate.RegisterTranslation("notblank", trans, func(ut ut.Translator) error {
			return ut.Add("notblank", "{0} must not be blank", true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("notblank", fe.Field())
			return t
		})
	}
	return uni, nil
}
