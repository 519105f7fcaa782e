package redis

import "fmt"

const (
	// KeyPrefixHistory is the prefix for history entry keys
	KeyPrefixHistory = "qrgen:history:"
	// KeyAllHistory is the key for the set of all history entry IDs
	KeyAllHistory = "qrgen:history-ids"
)

// HistoryKey returns the Redis key for a history entry by ID
func HistoryKey(id string) string {
	return KeyPrefixHistory + id
}

// AllHistoryKey returns the key for the set of all history entry IDs
func AllHistoryKey() string {
	return KeyAllHistory
}

// ExtractHistoryID extracts the entry ID from a Redis key
func ExtractHistoryID(key string) (string, error) {
	if len(key) <= len(KeyPrefixHistory) {
		return "", fmt.Errorf("invalid history key: %s", key)
	}
	return key[len(KeyPrefixHistory):], nil
}
