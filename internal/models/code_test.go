package models_test

import (
	"testing"

	"github.com/talentlink-app/talentlink_be/internal/models"
)

func TestGenerateCodeValue(t *testing.T) {
	value, err := models.GenerateCodeValue(6)
	if err != nil {
		t.Fatalf("GenerateCodeValue: %v", err)
	}
	if len(value) != 6 {
		t.Fatalf("expected 6 digits, got %q", value)
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			t.Fatalf("expected numeric code, got %q", value)
		}
	}
}
