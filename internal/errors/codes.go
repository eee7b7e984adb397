package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to their own messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed identifier
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // value out of range
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong format

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // no such row
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate
	ResourceConflict      = "RESOURCE_CONFLICT"       // constraint conflict

	// ==================== Businesses (BUSINESS_) ====================
	BusinessNotFound      = "BUSINESS_NOT_FOUND"      // no such business
	BusinessAlreadyExists = "BUSINESS_ALREADY_EXISTS" // same name+region (case-insensitive)

	// ==================== Taxonomy (TAXONOMY_) ====================
	TaxonomyNodeNotFound = "TAXONOMY_NODE_NOT_FOUND" // no such node
	TaxonomyEmptyName    = "TAXONOMY_EMPTY_NAME"     // blank category name

	// ==================== Entity links (LINK_) ====================
	LinkNotFound          = "LINK_NOT_FOUND"           // no such link
	LinkEntityNotFound    = "LINK_ENTITY_NOT_FOUND"    // (entity_kind, entity_id) does not resolve
	LinkUnknownEntityKind = "LINK_UNKNOWN_ENTITY_KIND" // entity_kind names no known table

	// ==================== Records (ENTITY_) ====================
	EntityNotFound  = "ENTITY_NOT_FOUND" // record missing from its kind table
	EntityDuplicate = "ENTITY_DUPLICATE" // fingerprint already stored

	// ==================== Relation graph (GRAPH_) ====================
	GraphInvalidDirection = "GRAPH_INVALID_DIRECTION" // direction not in/out/both
	GraphInvalidDepth     = "GRAPH_INVALID_DEPTH"     // non-positive traversal depth

	// ==================== Sync (SYNC_) ====================
	SyncPartialFailure = "SYNC_PARTIAL_FAILURE" // some records failed during a run

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unexpected failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // storage failure
	InternalStorageError  = "INTERNAL_STORAGE_ERROR"  // object store failure
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // misconfiguration
)
