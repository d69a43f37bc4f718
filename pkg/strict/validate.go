package strict

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the validator shared by a Client. Struct-level rules
// that cross field boundaries (Nyquist) are registered here, and reported
// field names follow the json tags so errors name wire fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateSignalConfig, SignalConfig{})
	return v
}

// validateSignalConfig enforces the Nyquist criterion for analog signals:
// sampling_rate must exceed 2*frequency to avoid aliasing.
func validateSignalConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(SignalConfig)
	if !ok {
		return
	}
	if cfg.SignalType == SignalAnalog && cfg.SamplingRate <= 2*cfg.Frequency {
		sl.ReportError(cfg.SamplingRate, "sampling_rate", "SamplingRate", "nyquist", "")
	}
}

// fieldErrors converts validator errors into a field -> failed-rule map.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			fields[strings.ToLower(verr.Field())] = verr.Tag()
		}
	}
	return fields
}
