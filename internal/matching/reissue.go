package matching

import "parish-backend/internal/models"

// IssuedAgainst reports whether any of the given requests, each of which
// already has a certificate issued, refers to the record. Requests resolved
// to a record compare by ID; unresolved ones fall back to the identity key.
func IssuedAgainst(record *models.SacramentRecord, issued []*models.ServiceRequest) bool {
	recordKey := RecordKey(record)
	for _, req := range issued {
		if req.RecordID != nil && *req.RecordID != "" {
			if *req.RecordID == record.ID {
				return true
			}
			continue
		}
		if k, ok := RequestKey(req); ok && k == recordKey {
			return true
		}
	}
	return false
}
