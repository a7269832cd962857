// Package validation validates workflow definitions and configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type ActionDef struct {
//	    Name string `yaml:"name" validate:"required"`
//	}
//	err := validation.Validate(def)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Unique("actions", names).Custom(len(names) > 0, "actions", "must not be empty")
//	err := v.Validate()
package validation
