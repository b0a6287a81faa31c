// internal/language/tables.go
package language

import (
	"regexp"

	"agri-intelligence/internal/models"
)

// Layer weights for the detection scoring. Exclusive words carry the most
// signal, followed by agricultural loanwords which disambiguate short queries.
const (
	weightExclusive    = 5.0
	weightContextual   = 3.0
	weightAgricultural = 4.0
	weightPhonetic     = 2.5
	weightSequence     = 2.0
	weightScript       = 5.0
	weightScriptMixed  = 4.5

	// detectionThreshold is the minimum combined score a language needs
	// before it beats the English default.
	detectionThreshold = 2.0
)

// languageProfile holds the keyword dictionaries for one transliterated
// language. Words must be language-exclusive in the exclusive list; shared
// words belong in contextual or agricultural.
type languageProfile struct {
	exclusive    []string
	contextual   []string
	agricultural []string
}

var languageProfiles = map[models.Language]languageProfile{
	models.LangHindiTransliterated: {
		exclusive: []string{
			"main", "mera", "meri", "mere", "humara", "humari", "hamare",
			"tumhara", "tumhari", "tumhare", "uska", "uski", "uske",
			"kya", "kaisa", "kaise", "kahan", "kahaan", "kab", "kyun", "kyuki",
			"kaun", "kaunsa", "kitna", "kitni", "kitne",
			"karna", "karte", "karta", "karti", "karke", "karu", "karoon", "karunga",
			"hona", "hai", "hain", "hun", "ho", "hoga", "hogi", "honge",
			"aur", "ya", "lekin", "par", "magar", "isliye", "kyunki",
			"khet", "fasal", "kisan", "bhoomi", "zameen", "khad", "pani",
		},
		contextual: []string{
			"bhaya", "bhai", "sahab", "ji", "haan", "nahi", "arre", "are",
			"batao", "bolo", "dekho", "suno", "acha", "theek",
			"samjha", "samjhe", "pata", "malum",
		},
		agricultural: []string{
			"gehu", "gehun", "wheat", "dhan", "chawal", "rice", "makka", "maize",
			"ugana", "ugani", "lagna", "bona", "katna", "fasal", "crop",
		},
	},
	models.LangPunjabiTransliterated: {
		exclusive: []string{
			"main", "mera", "meri", "mere", "saada", "saadi", "saade",
			"tera", "teri", "tere", "ohda", "ohdi", "ohde", "tusada", "tusadi",
			"ki", "kive", "kithe", "kithon", "kad", "kado", "kyun",
			"kaun", "kinna", "kinni", "kinne",
			"karan", "karda", "kardi", "karde", "karaan", "karaange",
			"hona", "hai", "han", "haan", "si", "san", "hoge", "honge",
			"te", "ch", "nal", "ton", "tak", "layi", "vaste",
			"kanak", "gehun", "dhan", "makki", "kapah", "khet", "zameen",
		},
		contextual: []string{
			"oye", "yaar", "paaji", "bhai", "veere", "chak", "hun",
			"dass", "dekh", "sun", "bol", "ja", "aa", "theek",
		},
		agricultural: []string{
			"kanak", "wheat", "dhan", "rice", "kapah", "cotton", "makki", "corn",
			"ugauna", "bona", "vaddna", "khet", "farm",
		},
	},
	models.LangBengaliTransliterated: {
		exclusive: []string{
			"ami", "amar", "amra", "amader", "tomar", "tomra", "tomader",
			"tar", "tader", "oder", "egulo", "ogulo",
			"ki", "kemon", "kothay", "kokhon", "keno", "kar", "koto",
			"kore", "korte", "korbo", "korcho", "korechi", "korbe",
			"ache", "achhe", "chilo", "chile", "hobe", "hoyeche",
			"re", "to", "ar", "o", "ba", "kintu", "tobe",
			"chashi", "jomi", "dhan", "gom", "pata", "fasal",
		},
		contextual: []string{
			"ekjon", "ekta", "ekhane", "okhane", "kemon", "bhalo",
			"dekho", "shuno", "bolo", "jao", "esho", "bosho",
		},
		agricultural: []string{
			"dhan", "rice", "gom", "wheat", "jute", "aam", "mango",
			"chash", "farming", "jomi", "land", "poka", "pest",
		},
	},
	models.LangGujaratiTransliterated: {
		exclusive: []string{
			"hun", "mane", "mari", "maro", "maru", "amane", "amari", "amaro",
			"tane", "tari", "taro", "taru", "tamane", "tamari",
			"shu", "kem", "kevi", "kya", "kyare", "kone", "ketla",
			"chhe", "che", "hatu", "hase", "hoy", "thay",
		},
		agricultural: []string{"khedut", "khetar", "ghau", "chaval", "kapas"},
	},
}

// phoneticSignature captures transliteration suffix/infix conventions that
// survive even when no dictionary word matches.
type phoneticSignature struct {
	endings []*regexp.Regexp
	middles []*regexp.Regexp
	sounds  []string
}

var phoneticSignatures = map[models.Language]phoneticSignature{
	models.LangHindiTransliterated: {
		endings: compilePatterns(`\w+na\b`, `\w+ta\b`, `\w+te\b`, `\w+kar\b`, `\w+oon\b`),
		middles: compilePatterns(`\bke\s+`, `\bse\s+`, `\bmein\s+`, `\bpar\s+`),
		sounds:  []string{"aa", "ee", "oo", "ay", "ai"},
	},
	models.LangPunjabiTransliterated: {
		endings: compilePatterns(`\w+aan\b`, `\w+de\b`, `\w+di\b`),
		middles: compilePatterns(`\bch\s+`, `\bte\s+`, `\bnal\s+`, `\bton\s+`),
		sounds:  []string{"aa", "ee", "oo", "eh", "oh"},
	},
	models.LangBengaliTransliterated: {
		endings: compilePatterns(`\w+bo\b`, `\w+che\b`, `\w+te\b`, `\w+re\b`),
		middles: compilePatterns(`\bar\s+`, `\bo\s+`, `\bto\s+`),
		sounds:  []string{"o", "e", "oy", "on"},
	},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// wordSequences are bigrams specific to one language's spoken register.
var wordSequences = map[models.Language][][]string{
	models.LangHindiTransliterated: {
		{"kya", "karu"}, {"kaise", "karu"}, {"batao", "ki"},
		{"mera", "khet"}, {"wheat", "ugani"}, {"main", "kisan"},
	},
	models.LangPunjabiTransliterated: {
		{"ki", "karan"}, {"kive", "karan"}, {"mera", "khet"},
		{"main", "kisan"}, {"dass", "ki"},
	},
	models.LangBengaliTransliterated: {
		{"ami", "chashi"}, {"ki", "korbo"}, {"amar", "jomi"},
		{"dhan", "chash"}, {"ekjon", "chashi"},
	},
}

// scriptRange maps a native Unicode block to its language. Mixed-script
// queries (native plus Latin) resolve to the code-mixed tag.
type scriptRange struct {
	language models.Language
	mixed    models.Language
	lo, hi   rune
}

var scriptRanges = []scriptRange{
	{models.LangHindi, models.LangHinglish, 0x0900, 0x097F},
	{models.LangPunjabi, models.LangPunglish, 0x0A00, 0x0A7F},
	{models.LangBengali, models.LangBengaliTransliterated, 0x0980, 0x09FF},
	{models.LangGujarati, models.LangGujaratiTransliterated, 0x0A80, 0x0AFF},
}

// mixedTags maps a transliterated base language to its code-mixed tag when
// English words co-occur in the same query.
var mixedTags = map[models.Language]models.Language{
	models.LangHindiTransliterated:   models.LangHinglish,
	models.LangPunjabiTransliterated: models.LangPunglish,
}

// commonEnglishWords flags code-mixing when they co-occur with a
// transliterated language's keywords.
var commonEnglishWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"what": true, "how": true, "when": true, "where": true, "which": true,
	"price": true, "rate": true, "best": true, "good": true, "my": true,
	"wheat": true, "rice": true, "cotton": true, "crop": true, "farm": true,
	"water": true, "seed": true, "market": true, "weather": true,
}

// glossaries map native-script agricultural terms to English. Applied before
// translation so domain terms survive the round trip.
var glossaries = map[models.Language]map[string]string{
	models.LangHindi: {
		"किसान": "farmer", "फसल": "crop", "खेत": "field",
		"सिंचाई": "irrigation", "उर्वरक": "fertilizer", "बीज": "seed",
		"मौसम": "weather", "बारिश": "rainfall", "धान": "rice",
		"गेहूं": "wheat", "मक्का": "maize", "कपास": "cotton",
		"चना": "chickpea", "मूंग": "moong", "उड़द": "urad",
		"खरीफ": "kharif", "रबी": "rabi", "जायद": "zaid",
		"मंडी": "mandi", "दाम": "price", "भाव": "price", "योजना": "scheme",
		"सब्सिडी": "subsidy", "ऋण": "loan", "बीमा": "insurance",
	},
	models.LangPunjabi: {
		"ਕਿਸਾਨ": "farmer", "ਫਸਲ": "crop", "ਖੇਤ": "field",
		"ਸਿੰਚਾਈ": "irrigation", "ਖਾਦ": "fertilizer", "ਬੀਜ": "seed",
		"ਮੌਸਮ": "weather", "ਮੀਂਹ": "rainfall", "ਧਾਨ": "rice",
		"ਕਣਕ": "wheat", "ਮੱਕੀ": "maize", "ਕਪਾਹ": "cotton",
	},
	models.LangGujarati: {
		"ખેતી": "farming", "પાક": "crop", "ખેતર": "field",
		"પાણી": "water", "ખાતર": "fertilizer", "વરસાદ": "rainfall",
	},
	models.LangBengali: {
		"চাষী": "farmer", "ফসল": "crop", "জমি": "land",
		"ধান": "rice", "গম": "wheat", "সার": "fertilizer",
	},
}

// transliterationFallbacks give a degraded word-by-word rendering when the
// generative translator is unreachable.
var transliterationFallbacks = map[models.Language]map[string]string{
	models.LangHindiTransliterated: {
		"are": "hey", "bhaya": "brother", "bhai": "brother",
		"manna": "my", "mera": "my", "meri": "my", "mere": "my",
		"ugani": "grow", "ugana": "grow", "bona": "sow", "lagna": "plant",
		"ke": "of", "ka": "of", "karu": "should I do", "kare": "do",
		"batao": "please tell me", "bolo": "tell",
		"kya": "what", "kaise": "how", "main": "I", "hai": "is",
		"dhan": "rice", "makka": "corn", "gehun": "wheat",
	},
	models.LangPunjabiTransliterated: {
		"ki": "what", "kive": "how", "dass": "tell",
		"mera": "my", "tera": "your", "kanak": "wheat", "makki": "corn",
	},
	models.LangBengaliTransliterated: {
		"ami": "I", "amar": "my", "chashi": "farmer",
		"ki": "what", "korbo": "will do", "dhan": "rice", "gom": "wheat",
	},
}

// SupportedLanguage describes one entry of the public language list.
type SupportedLanguage struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

// SupportedLanguages returns the languages the pipeline accepts.
func SupportedLanguages() []SupportedLanguage {
	return []SupportedLanguage{
		{Code: "en", Name: "English", Native: "English"},
		{Code: "hi", Name: "Hindi", Native: "हिन्दी"},
		{Code: "pa", Name: "Punjabi", Native: "ਪੰਜਾਬੀ"},
		{Code: "bn", Name: "Bengali", Native: "বাংলা"},
		{Code: "gu", Name: "Gujarati", Native: "ગુજરાતી"},
	}
}
