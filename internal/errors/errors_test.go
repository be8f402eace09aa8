package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "User not found."},
			want: "User not found.",
		},
		{
			name: "error with cause",
			err:  &AppError{Code: ErrCodeInternal, Message: "create user", Cause: errors.New("connection reset")},
			want: "create user: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(wrapped, cause) = false, want true")
	}
	if Wrap(nil, ErrCodeInternal, "nothing") != nil {
		t.Errorf("Wrap(nil) should return nil")
	}
}

func TestConstructorsAndPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   *AppError
		code  ErrorCode
		check func(error) bool
	}{
		{"validation", Validation("Username and password are required."), ErrCodeValidation, IsValidation},
		{"validation field", ValidationField("username", "required"), ErrCodeValidation, IsValidation},
		{"conflict", Conflict("Username already taken."), ErrCodeConflict, IsConflict},
		{"unauthorized", Unauthorized("Invalid credentials."), ErrCodeUnauthorized, IsUnauthorized},
		{"forbidden", Forbidden("Forbidden: Admins only."), ErrCodeForbidden, IsForbidden},
		{"not found", NotFound("User not found."), ErrCodeNotFound, IsNotFound},
		{"not found formatted", NotFoundf("session %s not found", "s1"), ErrCodeNotFound, IsNotFound},
		{"internal", Internal("Server error"), ErrCodeInternal, IsInternal},
		{"wrapf", Wrapf(errors.New("x"), ErrCodeForbidden, "role %s", "user"), ErrCodeForbidden, IsForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if !tt.check(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
		})
	}

	if got := ValidationField("username", "required").Field; got != "username" {
		t.Errorf("Field = %q, want username", got)
	}
	if GetCode(errors.New("plain")) != "" || GetField(errors.New("plain")) != "" {
		t.Errorf("plain errors should have no code or field")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeValidation:   http.StatusBadRequest,
		ErrCodeConflict:     http.StatusConflict,
		ErrCodeUnauthorized: http.StatusUnauthorized,
		ErrCodeForbidden:    http.StatusForbidden,
		ErrCodeNotFound:     http.StatusNotFound,
		ErrCodeInternal:     http.StatusInternalServerError,
		ErrCodeTimeout:      http.StatusGatewayTimeout,
		ErrCodeCanceled:     499,
		ErrorCode("bogus"):  http.StatusInternalServerError,
		ErrorCode(""):       http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}
