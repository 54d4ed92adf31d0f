package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub store
// ---------------------------------------------------------------------------

type memStore map[string]string

func (m memStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memStore) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m memStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m, k)
	}
	return nil
}

func load(t *testing.T, store memStore) *Catalog {
	t.Helper()
	c, err := Load(context.Background(), "", store, English, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestTranslate_MissingKeyReturnsKey(t *testing.T) {
	c := load(t, memStore{})
	if got := c.T("nope.not.here"); got != "nope.not.here" {
		t.Fatalf("expected key back, got %q", got)
	}
	// A key naming a subtree is not a message.
	if got := c.T("errors"); got != "errors" {
		t.Fatalf("expected key back for subtree, got %q", got)
	}
}

func TestTranslate_Interpolation(t *testing.T) {
	dir := t.TempDir()
	for _, lang := range Supported {
		body := `{"greet":"Hello {{name}}","pair":"{{a}}-{{b}}"}`
		if err := os.WriteFile(filepath.Join(dir, string(lang)+".json"), []byte(body), 0o600); err != nil {
			t.Fatalf("write catalog: %v", err)
		}
	}
	c, err := Load(context.Background(), dir, nil, English, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := c.Translate("greet", map[string]any{"name": "A"}); got != "Hello A" {
		t.Fatalf("expected %q, got %q", "Hello A", got)
	}
	if got := c.Translate("pair", map[string]any{"a": 1}); got != "1-" {
		t.Fatalf("missing params should render empty, got %q", got)
	}
	if got := c.T("greet"); got != "Hello {{name}}" {
		t.Fatalf("without params text is unchanged, got %q", got)
	}
}

func TestSetLanguage_PersistsAndFlipsDirection(t *testing.T) {
	store := memStore{}
	c := load(t, store)
	if c.Direction() != "ltr" || c.IsRTL() {
		t.Fatalf("expected ltr by default")
	}

	if err := c.SetLanguage(context.Background(), Arabic); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if store[domain.KeyLanguage] != "ar" {
		t.Fatalf("expected language persisted, got %q", store[domain.KeyLanguage])
	}
	if c.Direction() != "rtl" {
		t.Fatalf("expected rtl for Arabic")
	}
	if got := c.T("errors.notFound"); got == "errors.notFound" || got == load(t, memStore{}).T("errors.notFound") {
		t.Fatalf("expected Arabic text, got %q", got)
	}

	// A new catalog over the same store restores the choice.
	if again := load(t, store); again.Language() != Arabic {
		t.Fatalf("expected restored language ar, got %s", again.Language())
	}
}

func TestSetLanguage_RejectsUnsupported(t *testing.T) {
	c := load(t, memStore{})
	if err := c.SetLanguage(context.Background(), "fr"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
	if c.Language() != English {
		t.Fatalf("language must not change on error")
	}
}

func TestToggle(t *testing.T) {
	c := load(t, memStore{})
	l, err := c.Toggle(context.Background())
	if err != nil || l != Arabic {
		t.Fatalf("expected ar, got %s err=%v", l, err)
	}
	l, _ = c.Toggle(context.Background())
	if l != English {
		t.Fatalf("expected en, got %s", l)
	}
}

func TestLoad_InvalidStoredLanguageFallsBack(t *testing.T) {
	c := load(t, memStore{domain.KeyLanguage: "xx"})
	if c.Language() != English {
		t.Fatalf("expected fallback en, got %s", c.Language())
	}
}

func TestCatalogsDefineTheSameKeys(t *testing.T) {
	c := load(t, memStore{})
	var walk func(prefix string, m map[string]any, out map[string]bool)
	walk = func(prefix string, m map[string]any, out map[string]bool) {
		for k, v := range m {
			if sub, ok := v.(map[string]any); ok {
				walk(prefix+k+".", sub, out)
				continue
			}
			out[prefix+k] = true
		}
	}
	en, ar := map[string]bool{}, map[string]bool{}
	walk("", c.tables[English], en)
	walk("", c.tables[Arabic], ar)
	for k := range en {
		if !ar[k] {
			t.Errorf("key %s missing from ar catalog", k)
		}
	}
	for k := range ar {
		if !en[k] {
			t.Errorf("key %s missing from en catalog", k)
		}
	}
}
