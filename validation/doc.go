// Package validation provides input validation for configuration and
// admin request payloads.
//
// It supports both struct tag validation (using the validator library)
// and programmatic validation with error collection. Struct tag
// validation is the usual choice for config types.
//
// # Struct Tag Validation
//
//	type DependencyConfig struct {
//	    Name  string `validate:"required"`
//	    Limit int    `validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("name", name)
//	err := v.Error()
package validation
