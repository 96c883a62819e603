package operations

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "rfmpulse/internal/errors"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{name: "nil", err: nil, want: "unknown operation error"},
		{name: "without step", err: NewValidationError("invalid period", nil), want: "[validation] invalid period"},
		{
			name: "with step and cause",
			err:  NewExecutionError(StepSegment, fmt.Errorf("kmeans diverged")),
			want: "[execution] segment: step failed: kmeans diverged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapStepError(t *testing.T) {
	clusterErr := &apperrors.ClusteringError{Required: 5, Got: 2}

	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{name: "domain error", err: fmt.Errorf("segment: %w", clusterErr), wantType: ErrorTypeExecution},
		{name: "cancelled", err: context.Canceled, wantType: ErrorTypeCancellation},
		{name: "deadline", err: fmt.Errorf("load: %w", context.DeadlineExceeded), wantType: ErrorTypeCancellation},
		{name: "already wrapped", err: NewValidationError("bad", nil), wantType: ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opErr := WrapStepError(StepSegment, tt.err)
			assert.Equal(t, tt.wantType, opErr.Type)
			assert.Equal(t, StepSegment, opErr.Step)
			assert.Equal(t, tt.wantType, GetErrorType(opErr))
		})
	}

	assert.Nil(t, WrapStepError(StepLoad, nil))

	var target *apperrors.ClusteringError
	assert.True(t, errors.As(WrapStepError(StepSegment, clusterErr), &target))
}

func TestOperationError_WithContext(t *testing.T) {
	err := NewExecutionError(StepLoad, assert.AnError).WithContext("path", "sales.xlsx")
	assert.Equal(t, "sales.xlsx", err.Context["path"])
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, ErrorType(""), GetErrorType(assert.AnError))
}
