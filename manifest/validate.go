package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	featureIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.+-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("feature_id", func(fl validator.FieldLevel) bool {
			return featureIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks required fields, identifier syntax and name uniqueness.
// Detector arguments are checked later, when [Manifest.Features] builds them.
func (m *Manifest) Validate() error {
	if m == nil {
		return newValidationError("manifest", "manifest is nil", nil)
	}

	if err := validatorInstance().Struct(m); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(m.Features))
	for i, e := range m.Features {
		if first, exists := seen[e.Name]; exists {
			return newValidationError(
				fieldForFeature(i, "name"),
				fmt.Sprintf("duplicate feature name %q (first declared at features[%d])", e.Name, first),
				nil,
			)
		}
		seen[e.Name] = i
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return newValidationError(field, msg, err)
	}

	return newValidationError("manifest", err.Error(), err)
}

// yamlishFieldName turns "Manifest.Features[0].Detect.Kind" into
// "features[0].detect.kind".
func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}

func fieldForFeature(index int, field string) string {
	return fmt.Sprintf("features[%d].%s", index, field)
}
