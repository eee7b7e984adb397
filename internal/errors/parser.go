package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries the code/message pair returned to clients
type ErrorInfo struct {
	Code    string // error code (see codes.go)
	Message string // human-readable message
}

// ParseError converts storage-layer errors into client-facing code/message
// pairs. Sensitive detail stays out of the message; the raw error is for logs.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint errors (SQLite phrases the same classes
	// differently, hence the extra patterns)

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    LinkEntityNotFound,
			Message: "Referenced row does not exist",
		}
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "violates not-null constraint") ||
		strings.Contains(errStrLower, "not null constraint failed") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 3. Transient connectivity errors: callers should retry with backoff,
	// the reconciler simply retries on its next scheduled run
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Storage is temporarily unavailable, retry later",
		}
	}

	// 4. Default internal error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError maps unique-index violations to domain codes.
// Conflicts on the taxonomy and link indexes never reach here in the normal
// paths (they are resolved to "return existing" at the repository), so a
// duplicate surfacing to the client names the offending identity.
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "idx_businesses_name_region") {
		return ErrorInfo{
			Code:    BusinessAlreadyExists,
			Message: "A business with this name already exists in this region",
		}
	}

	if strings.Contains(errLower, "idx_taxonomy_nodes_name_group") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This taxonomy node already exists",
		}
	}

	if strings.Contains(errLower, "fingerprint") {
		return ErrorInfo{
			Code:    EntityDuplicate,
			Message: "An identical record is already stored",
		}
	}

	if strings.Contains(errLower, "idx_entity_links_tuple") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This entity is already linked to this taxonomy pair",
		}
	}

	if strings.Contains(errLower, "feed_url") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This feed URL is already registered",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The resource already exists",
	}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "business":
		return "Business not found"
	case "taxonomy":
		return "Taxonomy node not found"
	case "link":
		return "Entity link not found"
	case "content", "strategy", "kpi", "trend":
		return "Record not found"
	default:
		return "Resource not found"
	}
}

func getDefaultErrorMessage(context string) string {
	if context == "" {
		return "An internal error occurred"
	}
	return "Failed to process " + context + " request"
}
