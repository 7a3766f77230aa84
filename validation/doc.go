// Package validation validates configuration structs with struct tags
// (github.com/go-playground/validator/v10) and reports failures as
// INVALID_INPUT errors from package errors.
//
//	type AnalysisConfig struct {
//	    TracePrefix string `mapstructure:"trace_prefix" validate:"required_if=Tracing true"`
//	}
//	err := validation.Validate(cfg)
package validation
