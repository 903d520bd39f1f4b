// Package archive persists company records to MongoDB.
//
// Records are stored one document per company, keyed by company number, so
// archiving the same company twice replaces the earlier copy:
//
//	{"_id": "00000006", "archived_at": ISODate(...), "record": {...}}
//
// Field order of the record is kept. JSON numbers become int64 when they
// are integral and fit, float64 otherwise.
package archive
