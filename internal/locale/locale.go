package locale

import "strings"

const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"
	LanguageSpanish = "es"
)

var supportedLanguages = []string{LanguageEnglish, LanguageChinese, LanguageSpanish}

type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

// Supported 返回受支持的语言代码列表。
func Supported() []string {
	return append([]string(nil), supportedLanguages...)
}

// NormalizeLanguage 归一化语言代码，不支持时返回空串。
func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "es") {
		return LanguageSpanish
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage 从 Accept-Language 头推断语言。
func LanguageFromAcceptLanguage(header string) string {
	trimmed := strings.ToLower(strings.TrimSpace(header))
	if trimmed == "" {
		return ""
	}
	for _, candidate := range []string{"zh", "es", "en"} {
		if strings.Contains(trimmed, candidate) {
			return NormalizeLanguage(candidate)
		}
	}
	return ""
}

// PreferenceForLanguage 返回语言对应的区域信息，默认英语。
func PreferenceForLanguage(language string) Preference {
	switch NormalizeLanguage(language) {
	case LanguageChinese:
		return Preference{Language: LanguageChinese, Locale: "zh_CN", HTMLLang: "zh-CN"}
	case LanguageSpanish:
		return Preference{Language: LanguageSpanish, Locale: "es_ES", HTMLLang: "es-ES"}
	default:
		return Preference{Language: LanguageEnglish, Locale: "en_US", HTMLLang: "en-US"}
	}
}
