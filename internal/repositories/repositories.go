// Package repositories contains the SQL persistence layer. Each entity
// gets its own repository; the sync snapshot is persisted through
// ProjectSyncRepository in a single transaction.
package repositories

import "strconv"

// itoa shortens positional-placeholder construction
func itoa(n int) string {
	return strconv.Itoa(n)
}
