package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError_DriverErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{
			name:     "Duplicate email",
			err:      &pq.Error{Code: pgUniqueViolation, Constraint: "idx_users_email"},
			context:  "register user",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "Duplicate product name",
			err:      &pq.Error{Code: pgUniqueViolation, Constraint: "idx_products_name"},
			context:  "create product",
			wantCode: ProductNameExists,
		},
		{
			name:     "Foreign key to a missing product",
			err:      &pq.Error{Code: pgForeignKeyViolation, Detail: `Key (product_id)=(42) is not present in table "products".`},
			context:  "create order",
			wantCode: ProductNotFound,
		},
		{
			name:     "Missing required column",
			err:      &pq.Error{Code: pgNotNullViolation, Column: "email"},
			context:  "register user",
			wantCode: ValidationRequired,
		},
		{
			name:     "Check constraint on the coffee profile",
			err:      &pq.Error{Code: pgCheckViolation, Constraint: "chk_products_roast_level"},
			context:  "create product",
			wantCode: ProductInvalidProfile,
		},
		{
			name:     "Wrapped driver error still matches",
			err:      fmt.Errorf("failed to create user: %w", &pq.Error{Code: pgUniqueViolation, Constraint: "idx_users_email"}),
			context:  "register user",
			wantCode: AuthEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_Fallbacks(t *testing.T) {
	t.Run("Record not found", func(t *testing.T) {
		info := ParseError(gorm.ErrRecordNotFound, "fetch product")
		assert.Equal(t, ResourceNotFound, info.Code)
		assert.Equal(t, "Produkt nie został znaleziony", info.Message)
	})

	t.Run("Plain-text duplicate key", func(t *testing.T) {
		info := ParseError(errors.New(`duplicate key value violates unique constraint "idx_users_email"`), "register user")
		assert.Equal(t, AuthEmailAlreadyExists, info.Code)
	})

	t.Run("Unrecognized error", func(t *testing.T) {
		info := ParseError(errors.New("something broke"), "create product")
		assert.Equal(t, InternalServerError, info.Code)
	})
}
