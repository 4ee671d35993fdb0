package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRandomStorageKey(t *testing.T) {
	key := RandomStorageKey()

	if !strings.HasPrefix(key, "attachments/") {
		t.Fatalf("key %q lacks attachments/ prefix", key)
	}
	parts := strings.Split(key, "/")
	if len(parts) != 5 {
		t.Fatalf("key %q: expected attachments/yyyy/m/d/uuid", key)
	}
	if _, err := uuid.Parse(parts[4]); err != nil {
		t.Fatalf("key %q: last segment is not a uuid: %v", key, err)
	}

	if RandomStorageKey() == key {
		t.Error("keys should not repeat")
	}
}
