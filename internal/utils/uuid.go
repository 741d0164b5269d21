package utils

import "github.com/google/uuid"

// GenerateUUID returns a random UUID string for task IDs
func GenerateUUID() string {
	return uuid.New().String()
}
