package config

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Valid hex lengths for keys and IVs.
var (
	hexKeyLengths = []int{32, 48, 64}
	hexIVLength   = 32
)

// newValidator returns a validator with the custom tags and cross-field rules registered.
func newValidator() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	for tag, fn := range map[string]validator.Func{
		"exclusive": validateExclusive,
		"hexkey":    validateHexKey,
		"hexiv":     validateHexIV,
	} {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("registering %s validation: %w", tag, err)
		}
	}

	validate.RegisterStructValidation(validateConfig, Config{})

	return validate, nil
}

// validateExclusive fails when the field and any of the space-separated other fields are all set.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.IsValid() || field.IsZero() {
		return true
	}

	for _, name := range strings.Fields(fl.Param()) {
		other := fl.Parent().FieldByName(name)
		if other.IsValid() && !other.IsZero() {
			return false
		}
	}

	return true
}

func validateHexKey(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	for _, length := range hexKeyLengths {
		if len(value) == length {
			return isHex(value)
		}
	}

	return false
}

func validateHexIV(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	return len(value) == hexIVLength && isHex(value)
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)

	return err == nil
}

// validateConfig enforces the rules spanning several fields.
func validateConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}

	if cfg.Encrypt == cfg.Decrypt {
		sl.ReportError(cfg.Encrypt, "--encrypt", "Encrypt", "operation", "")
	}

	if cfg.KeySource() == "" {
		sl.ReportError(cfg.Key, "--key", "Key", "keysource", "")
	}
}

// describe turns a field error into a message naming the offending flag.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "hexkey":
		return fmt.Sprintf("%s must be 32, 48 or 64 hex characters (16, 24 or 32 bytes)", fe.Field())
	case "hexiv":
		return fmt.Sprintf("%s must be 32 hex characters (16 bytes)", fe.Field())
	case "exclusive":
		return fmt.Sprintf("%s is mutually exclusive with %s", fe.Field(), flagNames(fe.Param()))
	case "operation":
		return "exactly one of --encrypt or --decrypt is required"
	case "keysource":
		return "one of --key, --password or --ask-password is required"
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

// flagNames maps space-separated struct field names to their flag labels.
func flagNames(fields string) string {
	labels := map[string]string{
		"Key":         "--key",
		"Password":    "--password",
		"AskPassword": "--ask-password",
	}

	names := strings.Fields(fields)
	for i, name := range names {
		if label, ok := labels[name]; ok {
			names[i] = label
		}
	}

	return strings.Join(names, ", ")
}
