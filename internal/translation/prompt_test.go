package translation

import (
	"strings"
	"testing"
)

func TestBuildTranslationPrompts_Basics(t *testing.T) {
	t.Parallel()

	system, user := BuildTranslationPrompts("Hello", PromptOptions{
		SourceLang: "英语",
		TargetLang: "中文",
	})

	if !strings.Contains(system, "将以下英语文本翻译成中文") {
		t.Fatalf("system prompt missing language pair:\n%s", system)
	}
	if strings.Contains(system, "专业领域") {
		t.Fatalf("system prompt must not mention a domain when none was given")
	}
	if strings.Contains(system, "术语对照表") {
		t.Fatalf("system prompt must not mention a glossary when none was given")
	}
	if !strings.Contains(user, "待翻译文本：\nHello") {
		t.Fatalf("user prompt missing payload:\n%s", user)
	}
	if !strings.Contains(user, "【翻译结果】") {
		t.Fatalf("user prompt missing translation delimiter instruction")
	}
	if strings.Contains(user, "【摘要】") {
		t.Fatalf("user prompt must not ask for a summary when not requested")
	}
}

func TestBuildTranslationPrompts_DomainAndGlossary(t *testing.T) {
	t.Parallel()

	system, _ := BuildTranslationPrompts("text", PromptOptions{
		SourceLang: "英语",
		TargetLang: "中文",
		Domain:     "医学",
		Glossary:   map[string]string{"b-term": "乙", "a-term": "甲"},
	})

	if !strings.Contains(system, "专业领域：医学") {
		t.Fatalf("system prompt missing domain clause:\n%s", system)
	}
	// Terms are rendered sorted so prompts are deterministic.
	aIdx := strings.Index(system, "- a-term: 甲")
	bIdx := strings.Index(system, "- b-term: 乙")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Fatalf("glossary terms missing or unsorted:\n%s", system)
	}
}

func TestBuildTranslationPrompts_SummaryInstruction(t *testing.T) {
	t.Parallel()

	_, user := BuildTranslationPrompts("text", PromptOptions{
		SourceLang:       "英语",
		TargetLang:       "中文",
		Summary:          true,
		SummaryMaxLength: 100,
	})

	if !strings.Contains(user, "【摘要】") {
		t.Fatalf("user prompt missing summary delimiter instruction:\n%s", user)
	}
	if !strings.Contains(user, "不超过100字") {
		t.Fatalf("user prompt missing summary length bound:\n%s", user)
	}
}

func TestBuildSummaryPrompts_TemplateOverride(t *testing.T) {
	t.Parallel()

	system, user := buildSummaryPrompts("sample text", "中文", 50, "Summarize into {target_lang}, at most {max_length} chars.")
	if system != "Summarize into 中文, at most 50 chars." {
		t.Fatalf("unexpected templated system prompt: %q", system)
	}
	if !strings.Contains(user, "sample text") {
		t.Fatalf("user prompt missing sample:\n%s", user)
	}
}

func TestBuildSummaryPrompts_Default(t *testing.T) {
	t.Parallel()

	system, _ := buildSummaryPrompts("sample", "中文", 100, "")
	if !strings.Contains(system, "不超过100字") {
		t.Fatalf("default system prompt missing length bound:\n%s", system)
	}
}
