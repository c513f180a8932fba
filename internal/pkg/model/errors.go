package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration indicates that a chart can not be built from its configuration.
var ErrConfiguration = errors.New("invalid chart configuration")

// ConfigurationError reports the configuration field that prevents a chart from being built.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError creates a new [ConfigurationError].
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Reason: reason,
	}
}
