// Package locale translates engine values (stems, branches, elements, life
// curve labels) and calendar summaries into the supported languages.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/fortune"
	"github.com/tartampluch/go-saju/internal/ganzhi"
	"github.com/tartampluch/go-saju/internal/lifecurve"
	"github.com/tartampluch/go-saju/internal/wuxing"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog is the loaded translation bundle and the languages it covers.
type Catalog struct {
	bundle    *i18n.Bundle
	languages []language.Tag
	matcher   language.Matcher
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the catalog built from the embedded locale files.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = Load()
	})
	return defaultCatalog
}

// Load reads every embedded active.<lang>.json file into a new bundle.
// Unreadable files are logged and skipped.
func Load() *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	// The default language comes first so the matcher falls back to it.
	tags := []language.Tag{language.English}

	entries, err := localeFS.ReadDir(config.LocaleDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyError, err,
		)
		return newCatalog(bundle, tags)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.LocaleSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocalePrefix), config.LocaleSuffix)
		tag, err := language.Parse(langCode)
		if langCode == "" || err != nil {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocaleDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		if tag != language.English {
			tags = append(tags, tag)
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyLang, langCode,
		)
	}
	return newCatalog(bundle, tags)
}

func newCatalog(bundle *i18n.Bundle, tags []language.Tag) *Catalog {
	return &Catalog{bundle: bundle, languages: tags, matcher: language.NewMatcher(tags)}
}

// Languages returns the base language codes the catalog can serve.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.languages))
	for _, t := range c.languages {
		base, _ := t.Base()
		out = append(out, base.String())
	}
	return out
}

// Translator renders engine values in one language.
type Translator struct {
	lang      string
	localizer *i18n.Localizer
}

// Translator returns a translator for the closest supported match of lang
// (a BCP 47 tag or an Accept-Language header value).
func (c *Catalog) Translator(lang string) *Translator {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	desired, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(desired) == 0 {
		desired = []language.Tag{language.Make(config.DefaultLanguage)}
	}
	_, idx, _ := c.matcher.Match(desired...)
	base, _ := c.languages[idx].Base()
	return &Translator{
		lang:      base.String(),
		localizer: i18n.NewLocalizer(c.bundle, base.String()),
	}
}

// New is shorthand for Default().Translator(lang).
func New(lang string) *Translator {
	return Default().Translator(lang)
}

// Lang returns the resolved base language code.
func (t *Translator) Lang() string { return t.lang }

// Msg translates a message ID, returning the ID itself when it is missing.
func (t *Translator) Msg(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Stem returns the localized stem name.
func (t *Translator) Stem(s ganzhi.Stem) string {
	return t.Msg(config.TKeyStemPrefix+strconv.Itoa(int(s)), nil)
}

// Branch returns the localized branch name.
func (t *Translator) Branch(b ganzhi.Branch) string {
	return t.Msg(config.TKeyBranchPrefix+strconv.Itoa(int(b)), nil)
}

// Pillar returns the localized pillar name.
func (t *Translator) Pillar(p ganzhi.Pillar) string {
	return t.Msg(config.TKeyPillarFormat, map[string]any{
		"Stem":   t.Stem(p.Stem),
		"Branch": t.Branch(p.Branch),
	})
}

// Element returns the localized element name.
func (t *Translator) Element(e wuxing.Element) string {
	return t.Msg(config.TKeyElementPrefix+e.String(), nil)
}

// Dimension returns the localized life-curve dimension name.
func (t *Translator) Dimension(d lifecurve.Dimension) string {
	return t.Msg(config.TKeyDimensionPrefix+d.String(), nil)
}

// Phase returns the localized life phase name.
func (t *Translator) Phase(p lifecurve.Phase) string {
	return t.Msg(config.TKeyPhasePrefix+p.String(), nil)
}

// Direction returns the localized Daeun direction.
func (t *Translator) Direction(d fortune.Direction) string {
	return t.Msg(config.TKeyDirectionPrefix+d.String(), nil)
}

// SaeunSummary renders the calendar summary of an annual fortune.
func (t *Translator) SaeunSummary(a fortune.Annual) string {
	return t.Msg(config.TKeyEvtSaeun, map[string]any{
		"Year":   a.Year,
		"Pillar": t.Pillar(a.Pillar),
	})
}

// DaeunSummary renders the calendar summary of a decade window.
func (t *Translator) DaeunSummary(p fortune.Period) string {
	return t.Msg(config.TKeyEvtDaeun, map[string]any{
		"From":   p.StartAge,
		"To":     p.EndAge,
		"Pillar": t.Pillar(p.Pillar),
	})
}
