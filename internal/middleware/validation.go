package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medassist/telemed-api/internal/model"
)

// RegisterValidations installs custom binding rules on gin's validator.
// Call once at startup before serving.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	if err := v.RegisterValidation("featurevector", validFeatureVector); err != nil {
		panic(err)
	}

	// Report validation errors by json field name, not Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

// validFeatureVector accepts exactly FeatureCount severity values, each
// within [0, 10].
func validFeatureVector(fl validator.FieldLevel) bool {
	features, ok := fl.Field().Interface().([]float64)
	if !ok {
		return false
	}
	if len(features) != model.FeatureCount {
		return false
	}
	for _, f := range features {
		if f < 0 || f > 10 {
			return false
		}
	}
	return true
}
