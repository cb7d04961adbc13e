package auth

import (
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/imagerouter/imagerouter-go/internal/apperrors"
)

func TestSaveResolveDelete(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvAPIKey, "")

	if err := Save("  sk-test-123  "); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	key, src := Resolve()
	if key != "sk-test-123" || src != SourceKeyring {
		t.Errorf("Resolve = %q, %q; want trimmed key from keyring", key, src)
	}

	if err := Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if key, src := Resolve(); key != "" || src != SourceNone {
		t.Errorf("Resolve after delete = %q, %q", key, src)
	}
}

func TestEnvFallback(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvAPIKey, "sk-from-env")

	key, src := Resolve()
	if key != "sk-from-env" || src != SourceEnv {
		t.Errorf("Resolve = %q, %q; want env fallback", key, src)
	}
}

func TestRequireWithoutKey(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvAPIKey, "")

	_, err := Require()
	if !apperrors.IsKind(err, apperrors.KindAuth) {
		t.Errorf("got %v, want auth error", err)
	}
}

func TestSaveRejectsEmptyKey(t *testing.T) {
	keyring.MockInit()

	if err := Save("   "); !apperrors.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}
