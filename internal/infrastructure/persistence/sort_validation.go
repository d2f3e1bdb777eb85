package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// OfferSortFields contains allowed sort fields for commission offers
var OfferSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"title":            true,
	"commission_type":  true,
	"commission_value": true,
	"status":           true,
	"valid_from":       true,
	"valid_to":         true,
}

// TransactionSortFields contains allowed sort fields for commission transactions
var TransactionSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"commission_amount": true,
	"sale_amount":       true,
	"status":            true,
}
