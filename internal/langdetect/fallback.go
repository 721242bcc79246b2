package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// linguaLabels maps lingua classifications onto the canonical label set.
// Languages lingua supports but this service does not are left out.
var linguaLabels = map[lingua.Language]string{
	lingua.English:    "英语",
	lingua.Chinese:    "中文",
	lingua.Japanese:   "日语",
	lingua.Korean:     "韩语",
	lingua.French:     "法语",
	lingua.German:     "德语",
	lingua.Spanish:    "西班牙语",
	lingua.Russian:    "俄语",
	lingua.Arabic:     "阿拉伯语",
	lingua.Portuguese: "葡萄牙语",
	lingua.Italian:    "意大利语",
	lingua.Dutch:      "荷兰语",
	lingua.Polish:     "波兰语",
	lingua.Turkish:    "土耳其语",
	lingua.Thai:       "泰语",
	lingua.Vietnamese: "越南语",
	lingua.Indonesian: "印尼语",
	lingua.Malay:      "马来语",
	lingua.Greek:      "希腊语",
	lingua.Czech:      "捷克语",
	lingua.Swedish:    "瑞典语",
	lingua.Danish:     "丹麦语",
	lingua.Finnish:    "芬兰语",
	lingua.Hungarian:  "匈牙利语",
	lingua.Romanian:   "罗马尼亚语",
	lingua.Bulgarian:  "保加利亚语",
	lingua.Ukrainian:  "乌克兰语",
	lingua.Hebrew:     "希伯来语",
	lingua.Hindi:      "印地语",
	lingua.Bengali:    "孟加拉语",
	lingua.Urdu:       "乌尔都语",
	lingua.Persian:    "波斯语",
}

var (
	fallbackOnce     sync.Once
	fallbackDetector lingua.LanguageDetector
)

// detectOffline classifies text locally without a network call. Used only
// when the generation endpoint fails and the offline fallback is enabled.
// Returns an empty string when the sample is too short to classify.
func detectOffline(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	detected, exists := getFallbackDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}
	return linguaLabels[detected]
}

func getFallbackDetector() lingua.LanguageDetector {
	fallbackOnce.Do(func() {
		languages := make([]lingua.Language, 0, len(linguaLabels))
		for lang := range linguaLabels {
			languages = append(languages, lang)
		}
		fallbackDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build()
	})
	return fallbackDetector
}
