package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/errors"
)

func TestStructValid(t *testing.T) {
	bc := content.BusinessContext{
		Name:     "Acme",
		Overview: "Widgets for everyone.",
		Tone:     content.ToneFriendly,
		URL:      "https://acme.example.com",
	}
	if err := Struct(bc); err != nil {
		t.Fatalf("Struct() error = %v", err)
	}
}

func TestStructMissingRequired(t *testing.T) {
	err := Struct(content.BusinessContext{Name: "Acme"})
	if !errors.HasCode(err, errors.ErrCodeValidationFailed) {
		t.Fatalf("got %v, want validation failure", err)
	}
	if !strings.Contains(err.Error(), "overview") {
		t.Fatalf("error should name the json field: %v", err)
	}
}

func TestStructBadEnumAndURL(t *testing.T) {
	err := Struct(content.BusinessContext{
		Name:     "Acme",
		Overview: "Widgets.",
		Tone:     "sarcastic",
		URL:      "not a url",
	})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("want AppError, got %T", err)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("want 2 field errors, got %#v", appErr.Details["fields"])
	}
}
