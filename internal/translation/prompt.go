package translation

import (
	"fmt"
	"sort"
	"strings"
)

// Delimiters are the machine-findable contract between the prompt builder
// and the response parser.
const (
	translationMarker = "【翻译结果】"
	summaryMarker     = "【摘要】"
)

// PromptOptions selects what the generated prompts ask for.
type PromptOptions struct {
	SourceLang       string
	TargetLang       string
	Domain           string
	Glossary         map[string]string
	Summary          bool
	SummaryMaxLength int
}

// BuildTranslationPrompts renders the system and user prompt for one chunk
// or a whole text.
func BuildTranslationPrompts(text string, opts PromptOptions) (string, string) {
	var system strings.Builder
	system.WriteString("你是一个专业的翻译助手，擅长多语言翻译。\n\n")
	fmt.Fprintf(&system, "任务：将以下%s文本翻译成%s\n\n", opts.SourceLang, opts.TargetLang)
	system.WriteString("要求：\n")
	system.WriteString("1. 准确、流畅地翻译\n")
	system.WriteString("2. 保持原文的语气和风格\n")
	fmt.Fprintf(&system, "3. 只输出翻译后的%s文本，不要包含原文", opts.TargetLang)

	if domain := strings.TrimSpace(opts.Domain); domain != "" {
		fmt.Fprintf(&system, "\n\n专业领域：%s。请使用该领域的专业术语和表达方式。", domain)
	}

	if len(opts.Glossary) > 0 {
		terms := make([]string, 0, len(opts.Glossary))
		for term := range opts.Glossary {
			terms = append(terms, term)
		}
		sort.Strings(terms)

		system.WriteString("\n\n术语对照表（必须严格使用）：\n")
		for i, term := range terms {
			if i > 0 {
				system.WriteByte('\n')
			}
			fmt.Fprintf(&system, "- %s: %s", term, opts.Glossary[term])
		}
	}

	var user strings.Builder
	fmt.Fprintf(&user, "待翻译文本：\n%s\n\n", text)
	user.WriteString("请按以下格式输出：\n")
	fmt.Fprintf(&user, "%s\n<翻译后的%s文本>", translationMarker, opts.TargetLang)
	if opts.Summary {
		fmt.Fprintf(&user, "\n%s\n<用%s书写、不超过%d字的摘要>", summaryMarker, opts.TargetLang, opts.SummaryMaxLength)
	}

	return system.String(), user.String()
}

// buildSummaryPrompts renders the prompts for the standalone summary call
// issued after chunked translations are merged. An optional template with
// {target_lang} and {max_length} placeholders overrides the default system
// prompt.
func buildSummaryPrompts(sample, targetLang string, maxLength int, template string) (string, string) {
	var system string
	if trimmed := strings.TrimSpace(template); trimmed != "" {
		system = strings.NewReplacer(
			"{target_lang}", targetLang,
			"{max_length}", fmt.Sprintf("%d", maxLength),
		).Replace(trimmed)
	} else {
		system = fmt.Sprintf(`你是一个文本摘要专家，擅长为%s文本生成简洁的摘要。

任务：为以下文本生成一个简短的%s摘要（不超过%d字）。

要求：
1. 准确概括文本的主要内容
2. 语言简洁明了
3. 只输出摘要内容，不要输出任何其他内容`, targetLang, targetLang, maxLength)
	}

	user := fmt.Sprintf("请为以下文本生成摘要：\n\n【待摘要文本】\n%s\n\n只输出摘要内容（不超过%d字）。", sample, maxLength)
	return system, user
}
