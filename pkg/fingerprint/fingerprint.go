package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// fieldSeparator keeps ("ab", "c") and ("a", "bc") from hashing to the same value.
const fieldSeparator = "\x1f"

// normalize trims surrounding whitespace and lowercases a field so that casing
// and padding differences do not produce distinct fingerprints.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Compute returns the hex-encoded SHA-256 fingerprint of the given fields after
// normalization. The same fields in the same order always produce the same
// output; it is pure and performs no I/O.
func Compute(fields ...string) string {
	h := sha256.New()
	for i, f := range fields {
		if i > 0 {
			h.Write([]byte(fieldSeparator))
		}
		h.Write([]byte(normalize(f)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ComputeUnordered fingerprints a multi-valued field (e.g. tags) where the
// caller's ordering carries no meaning. Values are normalized and sorted before
// hashing so permutations collapse to one fingerprint.
func ComputeUnordered(values []string) string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		normalized = append(normalized, normalize(v))
	}
	sort.Strings(normalized)
	return Compute(strings.Join(normalized, fieldSeparator))
}

// Record returns the dedup key for a business-scoped record: identical
// normalized title/body/type under the same business collapse to one row.
func Record(businessID, title, body, recordType string) string {
	return Compute(businessID, title, body, recordType)
}

// Link returns the idempotency key for an entity link. Nil taxonomy references
// are encoded as empty strings so (cat, nil) and (cat, "") hash identically.
func Link(categoryID, subcategoryID *string, businessID, entityKind, entityID string) string {
	cat := ""
	if categoryID != nil {
		cat = *categoryID
	}
	sub := ""
	if subcategoryID != nil {
		sub = *subcategoryID
	}
	return Compute(cat, sub, businessID, entityKind, entityID)
}
