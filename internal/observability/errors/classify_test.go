package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", goerrors.New("x"), "errors_errorstring"},
		{"wrapped custom", fmt.Errorf("outer: %w", &customErr{}), "errors_customerr"},
		{"joined takes first", goerrors.Join(&customErr{}, goerrors.New("y")), "errors_customerr"},
		{"deadline", fmt.Errorf("find user: %w", context.DeadlineExceeded), "deadline_exceeded"},
		{"canceled", context.Canceled, "canceled"},
		{"postgres", fmt.Errorf("create user: %w", &pgconn.PgError{Code: "08006"}), "postgres_08"},
		{"postgres without code", &pgconn.PgError{}, "pgconn_pgerror"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
