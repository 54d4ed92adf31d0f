// Package i18n holds the English and Arabic message catalogs and the active
// display language.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Supported lists every language with a catalog.
var Supported = []Language{English, Arabic}

var ErrUnsupportedLanguage = errors.New("unsupported language")

//go:embed locales/*.json
var embedded embed.FS

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ParseLanguage accepts "en" or "ar".
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, sup := range Supported {
		if l == sup {
			return l, true
		}
	}
	return "", false
}

// Catalog translates dotted keys in the active language. The tables are
// read-only after Load; switching language only swaps the selector.
type Catalog struct {
	tables map[Language]map[string]any
	store  ports.KeyValueStore
	log    zerolog.Logger

	mu      sync.RWMutex
	current Language
}

// Load reads all catalogs concurrently, from dir when set and from the
// embedded copies otherwise, then restores the persisted language. fallback
// is used when nothing valid was persisted.
func Load(ctx context.Context, dir string, store ports.KeyValueStore, fallback Language, log zerolog.Logger) (*Catalog, error) {
	var src fs.FS
	if dir != "" {
		src = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embedded, "locales")
		if err != nil {
			return nil, fmt.Errorf("open embedded catalogs: %w", err)
		}
		src = sub
	}

	tables := make([]map[string]any, len(Supported))
	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range Supported {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := readTable(src, lang)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Catalog{
		tables:  make(map[Language]map[string]any, len(Supported)),
		store:   store,
		log:     log.With().Str("component", "i18n").Logger(),
		current: English,
	}
	for i, lang := range Supported {
		c.tables[lang] = tables[i]
	}
	if l, ok := ParseLanguage(string(fallback)); ok {
		c.current = l
	}

	if store != nil {
		stored, ok, err := store.Get(ctx, domain.KeyLanguage)
		if err != nil {
			c.log.Warn().Err(err).Msg("could not read stored language")
		} else if l, valid := ParseLanguage(stored); ok && valid {
			c.current = l
		}
	}

	c.log.Info().Str("language", string(c.current)).Msg("catalogs loaded")
	return c, nil
}

func readTable(src fs.FS, lang Language) (map[string]any, error) {
	raw, err := fs.ReadFile(src, string(lang)+".json")
	if err != nil {
		return nil, fmt.Errorf("read %s catalog: %w", lang, err)
	}
	var t map[string]any
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", lang, err)
	}
	return t, nil
}

// Translate looks key up in the active language. A missing key is returned
// as is. {{name}} placeholders are replaced from params; names absent from
// params render empty.
func (c *Catalog) Translate(key string, params map[string]any) string {
	return c.TranslateIn(c.Language(), key, params)
}

// T is Translate without parameters.
func (c *Catalog) T(key string) string {
	return c.Translate(key, nil)
}

// TranslateIn looks key up in lang regardless of the active language.
func (c *Catalog) TranslateIn(lang Language, key string, params map[string]any) string {
	text, ok := lookup(c.tables[lang], key)
	if !ok {
		c.log.Debug().Str("key", key).Str("language", string(lang)).Msg("translation not found")
		return key
	}
	if params == nil {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		v, ok := params[m[2:len(m)-2]]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

func lookup(table map[string]any, key string) (string, bool) {
	var cur any = table
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok && s != ""
}

func (c *Catalog) Language() Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetLanguage switches the active language and persists the choice.
func (c *Catalog) SetLanguage(ctx context.Context, lang Language) error {
	l, ok := ParseLanguage(string(lang))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	c.mu.Lock()
	c.current = l
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Set(ctx, domain.KeyLanguage, string(l)); err != nil {
			return fmt.Errorf("persist language: %w", err)
		}
	}
	return nil
}

// Toggle switches between English and Arabic.
func (c *Catalog) Toggle(ctx context.Context) (Language, error) {
	next := Arabic
	if c.Language() == Arabic {
		next = English
	}
	if err := c.SetLanguage(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

func (c *Catalog) IsRTL() bool {
	return c.Language() == Arabic
}

// Direction is the text direction of the active language, "rtl" or "ltr".
func (c *Catalog) Direction() string {
	if c.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// LanguageName is the native display name of lang.
func LanguageName(lang Language) string {
	if lang == Arabic {
		return "العربية"
	}
	return "English"
}
