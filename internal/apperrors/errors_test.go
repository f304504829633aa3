package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewNotFound("product not found")
	assert.Equal(t, "Kind=not_found, Msg=product not found", err.Error())

	wrapped := err.WrapParent(errors.New("record not found"))
	assert.Contains(t, wrapped.Error(), "Parent=(record not found)")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(NewValidation("bad input")))
	assert.Equal(t, KindAuthorization, KindOf(NewAuthorization("not yours")))
	assert.Equal(t, KindNotFound, KindOf(NewNotFound("gone")))
	assert.Equal(t, KindInvalidState, KindOf(NewInvalidState("cannot submit")))
	assert.Equal(t, KindTimeout, KindOf(NewTimeout("deadline exceeded")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	inner := NewInvalidState("only pending products can be approved")
	outer := fmt.Errorf("approving product: %w", inner)
	assert.Equal(t, KindInvalidState, KindOf(outer))
}

func TestUnwrap(t *testing.T) {
	err := NewTimeout("operation timed out").WrapParent(context.DeadlineExceeded)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewValidation("bad"), http.StatusBadRequest},
		{NewUnauthenticated("who"), http.StatusUnauthorized},
		{NewAuthorization("no"), http.StatusForbidden},
		{NewNotFound("gone"), http.StatusNotFound},
		{NewInvalidState("stuck"), http.StatusConflict},
		{NewTimeout("slow"), http.StatusGatewayTimeout},
		{NewInternal(errors.New("boom"), "broke"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "error: %v", tc.err)
	}
}

func TestWithViolations(t *testing.T) {
	violations := []string{"Product description cannot be empty.", "At least one product image is required."}
	err := NewValidation("product is not ready for review").WithViolations(violations)
	assert.Equal(t, violations, err.Violations())

	var appErr Error
	assert.True(t, errors.As(fmt.Errorf("submit: %w", err), &appErr))
	assert.Equal(t, violations, appErr.Violations())
}
