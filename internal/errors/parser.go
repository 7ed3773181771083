package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo carries a mapped error code and user-facing message.
type ErrorInfo struct {
	Code    string // error code (see codes.go)
	Message string // user-facing message
}

// Postgres SQLSTATE classes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError converts a storage or business error into a user-friendly code
// and message. Sensitive internals stay hidden; the message tells the user
// enough to fix their input.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Wystąpił błąd serwera",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL errors. Prefer the structured driver error; the
	// string checks below cover errors that were wrapped into plain text.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pqErr.Constraint+" "+pqErr.Detail, context)
		case pgForeignKeyViolation:
			return parseForeignKeyError(pqErr.Constraint+" "+pqErr.Detail, context)
		case pgNotNullViolation:
			return parseNotNullError(pqErr.Column, context)
		case pgCheckViolation:
			return parseCheckConstraintError(pqErr.Constraint, context)
		}
	}

	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr, context)
	}
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr, context)
	}

	// 3. Network errors towards external services
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Nie udało się połączyć z usługą zewnętrzną. Spróbuj ponownie później",
		}
	}

	// 4. Default internal server error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Ten adres e-mail jest już zarejestrowany",
		}
	}

	if strings.Contains(errLower, "products") && strings.Contains(errLower, "name") ||
		strings.Contains(errLower, "idx_products_name") {
		return ErrorInfo{
			Code:    ProductNameExists,
			Message: "Produkt o tej nazwie już istnieje",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Dane już istnieją. Spróbuj ponownie",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Dane już istnieją",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "product") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Nie można usunąć produktu, ponieważ jest powiązany z zamówieniami",
			}
		}
		if strings.Contains(context, "user") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Nie można usunąć użytkownika, ponieważ istnieją powiązane dane",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Nie można usunąć, ponieważ istnieją powiązane dane",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Użytkownik nie istnieje",
		}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "Produkt nie istnieje",
		}
	}
	if strings.Contains(errLower, "order_id") || strings.Contains(errLower, "fk_orders") {
		return ErrorInfo{
			Code:    OrderNotFound,
			Message: "Zamówienie nie istnieje",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Powiązane dane nie zostały znalezione",
	}
}

func parseNotNullError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Adres e-mail jest wymagany"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Hasło jest wymagane"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Nazwa jest wymagana"}
	}
	if strings.Contains(errLower, "price") {
		return ErrorInfo{Code: ValidationRequired, Message: "Cena jest wymagana"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "Brakuje wymaganego pola",
	}
}

func parseCheckConstraintError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "roast") || strings.Contains(errLower, "acidity") ||
		strings.Contains(errLower, "caffeine") || strings.Contains(errLower, "sweetness") {
		return ErrorInfo{
			Code:    ProductInvalidProfile,
			Message: "Parametry profilu kawy muszą mieścić się w zakresie 1-3",
		}
	}

	if strings.Contains(errLower, "quantity") || strings.Contains(errLower, "stock") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "Ilość musi być liczbą dodatnią",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "Nieprawidłowe dane wejściowe",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") {
		return "Produkt nie został znaleziony"
	}
	if strings.Contains(contextLower, "user") {
		return "Użytkownik nie został znaleziony"
	}
	if strings.Contains(contextLower, "order") {
		return "Zamówienie nie zostało znalezione"
	}

	return "Żądane dane nie zostały znalezione"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Wystąpił błąd podczas tworzenia. Spróbuj ponownie później"
	}
	if strings.Contains(contextLower, "update") {
		return "Wystąpił błąd podczas aktualizacji. Spróbuj ponownie później"
	}
	if strings.Contains(contextLower, "delete") {
		return "Wystąpił błąd podczas usuwania. Spróbuj ponownie później"
	}
	if strings.Contains(contextLower, "checkout") || strings.Contains(contextLower, "order") {
		return "Wystąpił błąd podczas składania zamówienia. Spróbuj ponownie później"
	}

	return "Wystąpił błąd serwera. Spróbuj ponownie później"
}

// ParseAndRespond parses an error and writes the mapped response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
