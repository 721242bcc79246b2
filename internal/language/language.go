// Package language defines the canonical language label set shared by the
// detector, the prompt builder, and the CLI/HTTP surfaces. Labels are the
// Chinese names the model is instructed to answer with (英语, 中文, ...).
package language

import "strings"

// LabelUnknown is the sentinel used when detection could not run at all
// (endpoint failure). It is never cached.
const LabelUnknown = "未知"

// LabelOther is the canonical label the model answers with when it cannot
// classify the text. Unlike LabelUnknown it is a valid, cacheable result.
const LabelOther = "其他"

// labels lists every supported language in the order the detection prompt
// presents them.
var labels = []string{
	"英语", "中文", "日语", "韩语", "法语", "德语", "西班牙语", "俄语",
	"阿拉伯语", "葡萄牙语", "意大利语", "荷兰语", "波兰语", "土耳其语",
	"泰语", "越南语", "印尼语", "马来语", "希腊语", "捷克语", "瑞典语",
	"丹麦语", "挪威语", "芬兰语", "匈牙利语", "罗马尼亚语", "保加利亚语",
	"乌克兰语", "希伯来语", "印地语", "孟加拉语", "乌尔都语", "波斯语",
}

// englishNames maps each canonical label to its English name, used to build
// the alias table and the detection prompt's mapping section.
var englishNames = map[string]string{
	"英语": "English", "中文": "Chinese", "日语": "Japanese", "韩语": "Korean",
	"法语": "French", "德语": "German", "西班牙语": "Spanish", "俄语": "Russian",
	"阿拉伯语": "Arabic", "葡萄牙语": "Portuguese", "意大利语": "Italian",
	"荷兰语": "Dutch", "波兰语": "Polish", "土耳其语": "Turkish", "泰语": "Thai",
	"越南语": "Vietnamese", "印尼语": "Indonesian", "马来语": "Malay",
	"希腊语": "Greek", "捷克语": "Czech", "瑞典语": "Swedish", "丹麦语": "Danish",
	"挪威语": "Norwegian", "芬兰语": "Finnish", "匈牙利语": "Hungarian",
	"罗马尼亚语": "Romanian", "保加利亚语": "Bulgarian", "乌克兰语": "Ukrainian",
	"希伯来语": "Hebrew", "印地语": "Hindi", "孟加拉语": "Bengali",
	"乌尔都语": "Urdu", "波斯语": "Persian",
}

// isoCodes maps ISO 639-1 codes to canonical labels for flag/request input.
var isoCodes = map[string]string{
	"en": "英语", "zh": "中文", "ja": "日语", "ko": "韩语", "fr": "法语",
	"de": "德语", "es": "西班牙语", "ru": "俄语", "ar": "阿拉伯语",
	"pt": "葡萄牙语", "it": "意大利语", "nl": "荷兰语", "pl": "波兰语",
	"tr": "土耳其语", "th": "泰语", "vi": "越南语", "id": "印尼语",
	"ms": "马来语", "el": "希腊语", "cs": "捷克语", "sv": "瑞典语",
	"da": "丹麦语", "no": "挪威语", "fi": "芬兰语", "hu": "匈牙利语",
	"ro": "罗马尼亚语", "bg": "保加利亚语", "uk": "乌克兰语", "he": "希伯来语",
	"hi": "印地语", "bn": "孟加拉语", "ur": "乌尔都语", "fa": "波斯语",
}

var aliases = buildAliases()

func buildAliases() map[string]string {
	m := make(map[string]string, 3*len(labels))
	for _, label := range labels {
		m[label] = label
		if english, ok := englishNames[label]; ok {
			m[strings.ToLower(english)] = label
		}
	}
	for code, label := range isoCodes {
		m[code] = label
	}
	m["英文"] = "英语"
	m[LabelOther] = LabelOther
	m["other"] = LabelOther
	return m
}

// Labels returns the canonical label list in prompt order.
func Labels() []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// EnglishName returns the English name for a canonical label, or the label
// itself when no mapping exists.
func EnglishName(label string) string {
	if english, ok := englishNames[label]; ok {
		return english
	}
	return label
}

// Canonical maps a label, English name, or ISO code to the canonical label.
// Returns an empty string when the value is not recognized.
func Canonical(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if label, ok := aliases[trimmed]; ok {
		return label
	}
	if label, ok := aliases[strings.ToLower(trimmed)]; ok {
		return label
	}
	return ""
}

// NormalizeTarget resolves a target-language value for prompt use. Known
// aliases map to the canonical label; anything else passes through trimmed,
// since the target language is free text as far as the model is concerned.
func NormalizeTarget(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if label := Canonical(trimmed); label != "" {
		return label
	}
	return trimmed
}
