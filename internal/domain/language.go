package domain

import (
	"fmt"
	"regexp"
	"sort"
)

var languagePattern = regexp.MustCompile(`^[a-z]{2}$`)

// Languages maps ISO-639-1 codes to native language names
var Languages = map[string]string{
	"pt": "Português",
	"en": "English",
	"es": "Español",
	"fr": "Français",
	"de": "Deutsch",
	"it": "Italiano",
	"ja": "日本語",
	"ko": "한국어",
	"zh": "中文",
	"ru": "Русский",
	"ar": "العربية",
	"hi": "हिन्दी",
	"th": "ไทย",
	"vi": "Tiếng Việt",
	"nl": "Nederlands",
	"pl": "Polski",
	"tr": "Türkçe",
	"sv": "Svenska",
	"da": "Dansk",
	"no": "Norsk",
	"fi": "Suomi",
	"cs": "Čeština",
	"sk": "Slovenčina",
	"hu": "Magyar",
	"ro": "Română",
	"bg": "Български",
	"hr": "Hrvatski",
	"sl": "Slovenščina",
	"et": "Eesti",
	"lv": "Latviešu",
	"lt": "Lietuvių",
	"ca": "Català",
	"eu": "Euskera",
	"gl": "Galego",
	"is": "Íslenska",
	"mt": "Malti",
	"cy": "Cymraeg",
	"ga": "Gaeilge",
	"mk": "Македонски",
	"sq": "Shqip",
	"sr": "Српски",
	"bs": "Bosanski",
	"be": "Беларуская",
	"uk": "Українська",
	"el": "Ελληνικά",
	"he": "עברית",
	"fa": "فارسی",
	"ur": "اردو",
	"bn": "বাংলা",
	"ta": "தமிழ்",
	"te": "తెలుగు",
	"kn": "ಕನ್ನಡ",
	"ml": "മലയാളം",
	"gu": "ગુજરાતી",
	"mr": "मराठी",
	"ne": "नेपाली",
	"si": "සිංහල",
	"my": "မြန်မာ",
	"km": "ភាសាខ្មែរ",
	"lo": "ລາວ",
	"ka": "ქართული",
	"am": "አማርኛ",
	"az": "Azərbaycan",
	"kk": "Қазақ",
	"ky": "Кыргыз",
	"uz": "Oʻzbek",
	"tg": "Тоҷикӣ",
	"mn": "Монгол",
	"yo": "Yorùbá",
	"zu": "isiZulu",
	"af": "Afrikaans",
	"sw": "Kiswahili",
	"ha": "Hausa",
	"ig": "Igbo",
	"so": "Soomaali",
	"mg": "Malagasy",
	"eo": "Esperanto",
	"mi": "Te Reo Māori",
	"ms": "Bahasa Melayu",
	"id": "Bahasa Indonesia",
	"tl": "Filipino",
}

// ValidateLanguage accepts an empty hint (auto-detect) or a 2-letter lowercase code
func ValidateLanguage(code string) error {
	if code == "" {
		return nil
	}
	if !languagePattern.MatchString(code) {
		return fmt.Errorf("%w: got %q", ErrInvalidLanguage, code)
	}
	return nil
}

// LanguageCodes returns the known codes in sorted order
func LanguageCodes() []string {
	codes := make([]string, 0, len(Languages))
	for code := range Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
