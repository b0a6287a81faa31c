// internal/language/translator.go
package language

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"agri-intelligence/internal/common/errors"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/llm"
	"agri-intelligence/internal/models"
)

// Translator converts farmer queries to English and responses back, with an
// agricultural glossary pass and a two-level cache. Every path degrades to
// returning the input text rather than failing the pipeline.
type Translator struct {
	adapter llm.Adapter
	model   string
	cache   *TranslationCache
	logger  logger.Logger
}

// NewTranslator creates a translator backed by the given adapter and cache.
func NewTranslator(adapter llm.Adapter, model string, cache *TranslationCache, log logger.Logger) *Translator {
	return &Translator{
		adapter: adapter,
		model:   model,
		cache:   cache,
		logger:  log,
	}
}

// translationOptions keeps translations literal rather than creative.
var translationOptions = llm.Options{Temperature: 0.3, TopP: 0.8, MaxOutputTokens: 1024}

// languageDescriptions phrase each tag the way the model understands it.
var languageDescriptions = map[models.Language]string{
	models.LangEnglish:                "English",
	models.LangHindi:                  "Hindi (Devanagari script)",
	models.LangPunjabi:                "Punjabi (Gurmukhi script)",
	models.LangBengali:                "Bengali (Bengali script)",
	models.LangGujarati:               "Gujarati (Gujarati script)",
	models.LangHindiTransliterated:    "Hindi written in Latin script",
	models.LangPunjabiTransliterated:  "Punjabi written in Latin script",
	models.LangBengaliTransliterated:  "Bengali written in Latin script",
	models.LangGujaratiTransliterated: "Gujarati written in Latin script",
	models.LangHinglish:               "Hinglish (Hindi-English code-mixed, Latin script)",
	models.LangPunglish:               "Punjabi-English code-mixed (Latin script)",
}

func describeLanguage(lang models.Language) string {
	if desc, ok := languageDescriptions[lang]; ok {
		return desc
	}
	return string(lang)
}

// ToEnglish translates a detected-language query into English. English input
// passes through untouched. On translator failure the glossary-substituted
// text is returned with a nil error so the pipeline keeps moving.
func (t *Translator) ToEnglish(ctx context.Context, text string, lang models.Language) (string, error) {
	if lang == models.LangEnglish {
		return strings.TrimSpace(text), nil
	}

	prepared := applyGlossary(text, lang)

	key := t.cache.Key(prepared, string(lang), string(models.LangEnglish))
	if cached, ok := t.cache.Get(ctx, key); ok {
		return cached, nil
	}

	prompt := fmt.Sprintf(`You are an agricultural translator for Indian farmer queries.

Query: %q
Source language: %s

Translate the query to clear English. Preserve all farming context, crop
names, quantities, and the farmer's intent. Handle transliterated and
code-mixed text accurately.

Provide ONLY the English translation:`, prepared, describeLanguage(lang))

	translated, err := t.adapter.Generate(ctx, t.model, prompt, translationOptions)
	if err != nil || strings.TrimSpace(translated) == "" {
		t.logger.Warn("translation to english degraded", map[string]interface{}{
			"language": string(lang),
			"error":    errString(err),
		})
		return improveAgriculturalEnglish(patternTranslate(prepared, lang)), nil
	}

	result := improveAgriculturalEnglish(strings.TrimSpace(translated))
	t.cache.Set(ctx, key, result)
	return result, nil
}

// FromEnglish translates an English response into the farmer's language.
// English-family targets pass through. On failure the English text is
// returned along with a translation error for the caller to log.
func (t *Translator) FromEnglish(ctx context.Context, text string, target models.Language) (string, error) {
	if target == models.LangEnglish {
		return text, nil
	}

	key := t.cache.Key(text, string(models.LangEnglish), string(target))
	if cached, ok := t.cache.Get(ctx, key); ok {
		return cached, nil
	}

	prompt := fmt.Sprintf(`You are an agricultural translator helping Indian farmers.

English text:
%s

Target language: %s

Translate the text into the target language exactly as described, keeping the
same register a local agricultural extension officer would use. Keep crop
names, numbers, and scheme names accurate. If the target is transliterated or
code-mixed, write in Latin script the way farmers type.

Provide ONLY the translation:`, text, describeLanguage(target))

	translated, err := t.adapter.Generate(ctx, t.model, prompt, translationOptions)
	if err != nil || strings.TrimSpace(translated) == "" {
		if err == nil {
			err = fmt.Errorf("empty translation for %s", target)
		}
		return text, errors.NewTranslationFailedError(err)
	}

	result := strings.TrimSpace(translated)
	t.cache.Set(ctx, key, result)
	return result, nil
}

// applyGlossary substitutes native-script agricultural terms with English so
// they survive translation verbatim.
func applyGlossary(text string, lang models.Language) string {
	base := lang
	switch lang {
	case models.LangHinglish:
		base = models.LangHindi
	case models.LangPunglish:
		base = models.LangPunjabi
	}

	glossary, ok := glossaries[base]
	if !ok {
		return text
	}
	for native, english := range glossary {
		text = strings.ReplaceAll(text, native, english)
	}
	return text
}

// patternTranslate gives a word-by-word rendering for transliterated text when
// the generative translator is unavailable.
func patternTranslate(text string, lang models.Language) string {
	base := lang
	switch lang {
	case models.LangHinglish:
		base = models.LangHindiTransliterated
	case models.LangPunglish:
		base = models.LangPunjabiTransliterated
	}

	mapping, ok := transliterationFallbacks[base]
	if !ok {
		return text
	}

	words := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		clean := strings.Trim(w, ".,;:!?\"'")
		if translated, ok := mapping[clean]; ok {
			if translated != "" {
				out = append(out, translated)
			}
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

var englishFixups = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bfarm land\b`), "farmland"},
	{regexp.MustCompile(`(?i)\brice crop\b`), "rice"},
	{regexp.MustCompile(`(?i)\bwheat crop\b`), "wheat"},
	{regexp.MustCompile(`(?i)\bwater irrigation\b`), "irrigation"},
	{regexp.MustCompile(`(?i)\bmoney loan\b`), "loan"},
	{regexp.MustCompile(`(?i)\bi need to know about\b`), "tell me about"},
}

// improveAgriculturalEnglish normalizes translation artifacts common in
// machine-translated agricultural queries.
func improveAgriculturalEnglish(text string) string {
	for _, fix := range englishFixups {
		text = fix.pattern.ReplaceAllString(text, fix.replacement)
	}
	return strings.TrimSpace(text)
}

func errString(err error) string {
	if err == nil {
		return "empty response"
	}
	return err.Error()
}
