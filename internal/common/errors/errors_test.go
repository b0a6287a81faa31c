// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Constructor Tests
// ==========================

func TestErrorConstructors(t *testing.T) {
	upstream := fmt.Errorf("connection refused")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"translation failed", NewTranslationFailedError(upstream), ErrCodeTranslationFailed, false},
		{"tool timeout", NewToolTimeoutError("weather"), ErrCodeToolTimeout, true},
		{"tool execution failed", NewToolExecutionFailedError("market", upstream), ErrCodeToolExecutionFailed, true},
		{"weather API", NewWeatherAPIError(upstream), ErrCodeWeatherAPIError, true},
		{"validation", NewValidationError("query is required"), ErrCodeValidationError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.NotEmpty(t, tt.err.Message)
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

// ==========================
// Retry Policy Tests
// ==========================

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeLLMGenerationFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeWeatherAPIError))
	assert.Equal(t, 1, GetRetryCount(ErrCodeToolTimeout))
	assert.Equal(t, 0, GetRetryCount(ErrCodeTranslationFailed))
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeMarketAPIError))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidationError))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category string
	}{
		{ErrCodeTranslationFailed, "LANGUAGE"},
		{ErrCodeToolTimeout, "TOOLS"},
		{ErrCodeSearchTimeout, "SEARCH"},
		{ErrCodeLLMTimeout, "AI"},
		{ErrCodeValidationError, "VALIDATION"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.category, GetErrorCategory(tt.code))
	}
}

// ==========================
// Handler Tests
// ==========================

type captureLogger struct {
	warns  []string
	errors []string
	fields []map[string]interface{}
}

func (l *captureLogger) Warn(msg string, fields map[string]interface{}) {
	l.warns = append(l.warns, msg)
	l.fields = append(l.fields, fields)
}

func (l *captureLogger) Error(msg string, fields map[string]interface{}) {
	l.errors = append(l.errors, msg)
	l.fields = append(l.fields, fields)
}

func TestHandleStageError_RetryableLogsWarn(t *testing.T) {
	log := &captureLogger{}
	handler := NewErrorHandler(log)

	stdErr := handler.HandleStageError("tool:weather", NewWeatherAPIError(fmt.Errorf("upstream 503")))

	assert.Equal(t, ErrCodeWeatherAPIError, stdErr.Code)
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)
	assert.Equal(t, "tool:weather", log.fields[0]["stage"])
	assert.Equal(t, 2, log.fields[0]["retries"])
}

func TestHandleStageError_NormalizesPlainErrors(t *testing.T) {
	log := &captureLogger{}
	handler := NewErrorHandler(log)

	stdErr := handler.HandleStageError("classification", fmt.Errorf("boom"))

	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Len(t, log.errors, 1)
}
