package ai

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageAuto asks the pipeline to guess the transcript language
const LanguageAuto = "auto"

const languageSampleWords = 500

var (
	vietnameseChars  = "àáảãạăằắẳẵặâầấẩẫậèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵđ"
	commonVietnamese = map[string]bool{
		"toi": true, "ban": true, "cua": true, "cho": true, "nay": true,
		"khi": true, "co": true, "khong": true, "voi": true, "la": true,
		"nhu": true, "hay": true, "can": true, "phai": true, "rat": true,
		"roi": true, "thi": true, "se": true, "duoc": true, "tu": true,
	}
)

// DetectLanguageMix guesses whether text is Vietnamese or English from
// the first 500 words. Mixed is reported when both exceed 20%.
func DetectLanguageMix(text string) (isMixed bool, primary string, ratio string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false, "unknown", ""
	}
	if len(words) > languageSampleWords {
		words = words[:languageSampleWords]
	}

	vn, en := 0, 0
	for _, word := range words {
		switch {
		case isVietnameseWord(word):
			vn++
		case isEnglishWord(word):
			en++
		}
	}

	total := vn + en
	if total == 0 {
		return false, "unknown", ""
	}

	vnRatio := float64(vn) / float64(total)
	enRatio := float64(en) / float64(total)

	if vnRatio > 0.2 && enRatio > 0.2 {
		primary = "vi"
		if enRatio > vnRatio {
			primary = "en"
		}
		return true, primary, fmt.Sprintf("vi:%.0f%% en:%.0f%%", vnRatio*100, enRatio*100)
	}
	if vnRatio > enRatio {
		return false, "vi", fmt.Sprintf("vi:%.0f%%", vnRatio*100)
	}
	return false, "en", fmt.Sprintf("en:%.0f%%", enRatio*100)
}

func isVietnameseWord(word string) bool {
	word = strings.ToLower(strings.Trim(word, ".,!?;:'\"()"))
	if strings.ContainsAny(word, vietnameseChars) {
		return true
	}
	return commonVietnamese[word]
}

func isEnglishWord(word string) bool {
	word = strings.ToLower(strings.Trim(word, ".,!?;:'\"()"))
	if word == "" {
		return false
	}
	for _, r := range word {
		if (r < 'a' || r > 'z') && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

// resolveLanguage applies the default for blank input and detection for "auto"
func resolveLanguage(requested, fallback, sample string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		requested = fallback
	}
	if !strings.EqualFold(requested, LanguageAuto) {
		return requested
	}
	if _, primary, _ := DetectLanguageMix(sample); primary != "unknown" {
		return primary
	}
	return fallback
}

// languageName gives the English display name of a language code,
// or the code itself when it does not parse.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func isEnglish(code string) bool {
	tag, err := language.Parse(code)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	return base.String() == "en"
}
