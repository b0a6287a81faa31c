// internal/language/detector.go
package language

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"

	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/models"
)

// Detector identifies the language, script, and transliteration style of a raw
// farmer query. Detection is deterministic: the same text always yields the
// same tag.
type Detector struct {
	logger logger.Logger
}

// NewDetector creates a language detector.
func NewDetector(log logger.Logger) *Detector {
	return &Detector{logger: log}
}

var wordSplitter = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Detect runs the layered scoring over the query and returns the best
// language tag. Queries shorter than two tokens default to English.
func (d *Detector) Detect(text string) models.Language {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := tokenize(lower)

	if len(words) < 2 {
		return models.LangEnglish
	}

	scores := make(map[models.Language]float64)

	exclusiveHits := d.scoreKeywordLayers(words, scores)
	d.scorePhonetic(lower, scores)
	d.scoreSequences(words, scores)
	scriptLangs := d.scoreScripts(text, scores)
	d.applyAdjustments(words, scores, exclusiveHits)

	detected := d.decide(lower, words, scores, exclusiveHits, scriptLangs)

	d.logger.Debug("language detected", map[string]interface{}{
		"language": string(detected),
		"tokens":   len(words),
	})

	return detected
}

func tokenize(lower string) []string {
	raw := wordSplitter.Split(lower, -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// scoreKeywordLayers runs the exclusive, contextual, and agricultural
// dictionary layers in one pass over the tokens. The returned map counts
// exclusive-word matches per language; agricultural loanwords include crop
// names farmers type in English, so exclusive evidence is tracked separately
// and gates the final decision.
func (d *Detector) scoreKeywordLayers(words []string, scores map[models.Language]float64) map[models.Language]int {
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}

	exclusiveHits := make(map[models.Language]int)
	for lang, profile := range languageProfiles {
		for _, indicator := range profile.exclusive {
			if n := counts[indicator]; n > 0 {
				scores[lang] += float64(n) * weightExclusive
				exclusiveHits[lang] += n
			}
		}
		for _, indicator := range profile.contextual {
			if n := counts[indicator]; n > 0 {
				scores[lang] += float64(n) * weightContextual
			}
		}
		for _, term := range profile.agricultural {
			if n := counts[term]; n > 0 {
				scores[lang] += float64(n) * weightAgricultural
			}
		}
	}
	return exclusiveHits
}

func (d *Detector) scorePhonetic(lower string, scores map[models.Language]float64) {
	for lang, sig := range phoneticSignatures {
		var hits float64
		for _, re := range sig.endings {
			hits += float64(len(re.FindAllString(lower, -1)))
		}
		for _, re := range sig.middles {
			hits += float64(len(re.FindAllString(lower, -1)))
		}
		for _, sound := range sig.sounds {
			if strings.Contains(lower, sound) {
				hits += 0.5
			}
		}
		if hits > 0 {
			scores[lang] += hits * weightPhonetic
		}
	}
}

func (d *Detector) scoreSequences(words []string, scores map[models.Language]float64) {
	for lang, sequences := range wordSequences {
		for _, seq := range sequences {
			if containsSequence(words, seq) {
				scores[lang] += weightSequence
			}
		}
	}
}

func containsSequence(words, seq []string) bool {
	for i := 0; i+len(seq) <= len(words); i++ {
		match := true
		for j, s := range seq {
			if words[i+j] != s {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// scoreScripts counts native-script characters per Unicode block. A block
// needs at least two characters to register; co-occurring Latin letters mark
// the query as code-mixed.
func (d *Detector) scoreScripts(text string, scores map[models.Language]float64) []models.Language {
	hasLatin := false
	counts := make(map[int]int)
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasLatin = true
			continue
		}
		for i, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				counts[i]++
				break
			}
		}
	}

	var matched []models.Language
	for i, n := range counts {
		if n < 2 {
			continue
		}
		sr := scriptRanges[i]
		scores[sr.language] += weightScript
		matched = append(matched, sr.language)
		if hasLatin {
			scores[sr.mixed] += weightScriptMixed
		}
	}
	return matched
}

// applyAdjustments carries the disambiguation rules that resolve the common
// Hindi/Punjabi/Bengali confusions in short spoken-register queries.
func (d *Detector) applyAdjustments(words []string, scores map[models.Language]float64, exclusiveHits map[models.Language]int) {
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	if wordSet["bhaya"] || wordSet["bhai"] {
		scores[models.LangHindiTransliterated] += 3.0
		scores[models.LangPunjabiTransliterated] += 1.0
	}
	if wordSet["batao"] {
		scores[models.LangHindiTransliterated] += 4.0
	}
	if wordSet["karu"] {
		scores[models.LangHindiTransliterated] += 3.0
	}

	// Code-mixing: English words alongside a transliterated language raise
	// that language and promote its mixed tag above it.
	englishCount := 0
	for _, w := range words {
		if commonEnglishWords[w] {
			englishCount++
		}
	}
	if englishCount > 0 {
		for base, mixed := range mixedTags {
			if exclusiveHits[base] > 0 {
				scores[base] += float64(englishCount) * 1.5
				scores[mixed] = scores[base] * 1.2
			}
		}
	}

	// Bengali shares many short particles with Hindi; damp it when the
	// Hindi evidence is strong.
	if scores[models.LangHindiTransliterated] > 5.0 {
		scores[models.LangBengaliTransliterated] *= 0.3
	}

	// Longer queries give the keyword layers more to work with.
	if len(words) > 5 {
		for lang, score := range scores {
			if score > 3.0 {
				scores[lang] = score + 1.0
			}
		}
	}
}

func (d *Detector) decide(lower string, words []string, scores map[models.Language]float64, exclusiveHits map[models.Language]int, scriptLangs []models.Language) models.Language {
	// Pure native script with no Latin mixing wins outright.
	if len(scriptLangs) == 1 && !strings.ContainsAny(lower, "abcdefghijklmnopqrstuvwxyz") {
		return scriptLangs[0]
	}

	var best models.Language
	var bestScore float64
	for lang, score := range scores {
		if score > bestScore || (score == bestScore && lang < best) {
			best = lang
			bestScore = score
		}
	}

	if bestScore >= detectionThreshold && d.hasHardEvidence(best, exclusiveHits, scriptLangs) {
		return best
	}

	// Below threshold: quick keyword heuristics, then a statistical pass.
	for _, w := range words {
		switch w {
		case "batao", "karu", "bhaya":
			return models.LangHindiTransliterated
		case "kive", "dass", "paaji":
			return models.LangPunjabiTransliterated
		case "chashi", "korbo":
			return models.LangBengaliTransliterated
		}
	}

	return d.statisticalFallback(lower)
}

// hasHardEvidence requires at least one exclusive-word or script match before
// a non-English tag can win. Agricultural loanwords and phonetic patterns
// alone also fire on ordinary English queries about Indian crops.
func (d *Detector) hasHardEvidence(lang models.Language, exclusiveHits map[models.Language]int, scriptLangs []models.Language) bool {
	if exclusiveHits[lang] > 0 {
		return true
	}
	for base, mixed := range mixedTags {
		if mixed == lang && exclusiveHits[base] > 0 {
			return true
		}
	}
	for _, sl := range scriptLangs {
		if sl == lang {
			return true
		}
		for _, sr := range scriptRanges {
			if sr.language == sl && sr.mixed == lang {
				return true
			}
		}
	}
	return false
}

// statisticalFallback consults a trigram language model for queries the
// heuristic layers could not place. Only reliable non-English detections of
// the supported languages override the English default.
func (d *Detector) statisticalFallback(text string) models.Language {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return models.LangEnglish
	}

	switch info.Lang.Iso6391() {
	case "hi":
		return models.LangHindi
	case "pa":
		return models.LangPunjabi
	case "bn":
		return models.LangBengali
	case "gu":
		return models.LangGujarati
	default:
		return models.LangEnglish
	}
}
