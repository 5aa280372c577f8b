package view

import (
	stderrors "errors"
	"fmt"

	"github.com/arthur-debert/envup/pkg/errors"
)

// ErrorView is an error flattened for display
type ErrorView struct {
	Code       errors.ErrorCode `json:"code"`
	Message    string           `json:"message"`
	Cause      string           `json:"cause,omitempty"`
	Subcommand string           `json:"subcommand,omitempty"`
	ExitCode   int              `json:"exit_code,omitempty"`
	Path       string           `json:"path,omitempty"`
	Output     string           `json:"output,omitempty"`
}

// NewErrorView extracts code, message and known details from err
func NewErrorView(err error) *ErrorView {
	var envupErr *errors.EnvupError
	if !stderrors.As(err, &envupErr) {
		return &ErrorView{Code: errors.ErrUnknown, Message: err.Error()}
	}

	v := &ErrorView{
		Code:    envupErr.Code,
		Message: envupErr.Message,
	}
	if envupErr.Wrapped != nil {
		v.Cause = envupErr.Wrapped.Error()
	}
	v.Subcommand = detailString(envupErr.Details, errors.DetailSubcommand)
	v.Path = detailString(envupErr.Details, errors.DetailPath)
	v.Output = detailString(envupErr.Details, errors.DetailOutput)
	if code, ok := envupErr.Details[errors.DetailExitCode].(int); ok {
		v.ExitCode = code
	}
	return v
}

func detailString(details map[string]interface{}, key string) string {
	value, ok := details[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
