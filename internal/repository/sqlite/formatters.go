package sqlite

// FormatBoolForDB encodes a bool as the 0/1 integer stored in SQLite
func FormatBoolForDB(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ParseBoolFromDB decodes a 0/1 integer column; any non-zero value is true
func ParseBoolFromDB(v int64) bool {
	return v != 0
}
