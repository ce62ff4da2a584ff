package pipeline

import (
	"context"
	"regexp"

	"go.uber.org/zap"
)

// englishPattern 匹配仅含 ASCII 字母、数字、空白与基础标点的提示词。
// 命中则跳过翻译。
var englishPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\.,!?\-]+$`)

// EnhanceSuffix 是追加到每个提示词末尾的固定后缀。
// 统一视角与纯白背景，保证下游背景去除和 3D 重建拿到干净的输入。
const EnhanceSuffix = ", isometric view, centered, no shadow, without background, plain white background"

// IsEnglish reports whether the prompt needs no translation.
func IsEnglish(text string) bool {
	return englishPattern.MatchString(text)
}

// EnhancePrompt appends the fixed view/background hints. Deterministic and
// intentionally not idempotent; it must always leave the suffix at the end.
func EnhancePrompt(prompt string) string {
	return prompt + EnhanceSuffix
}

// TransformOutcome records whether a best-effort transform was applied or
// fell back to the original value, so callers and tests can tell the two
// paths apart instead of the fallback being swallowed silently.
type TransformOutcome struct {
	Value   string
	Applied bool
	// Reason explains why the value is unchanged (skip or failure).
	Reason string
}

// normalizePrompt translates a non-English prompt to English, falling back
// to the original text when translation fails.
func (o *Orchestrator) normalizePrompt(ctx context.Context, prompt string) TransformOutcome {
	if IsEnglish(prompt) {
		return TransformOutcome{Value: prompt, Applied: false, Reason: "already english"}
	}

	translated, err := o.translator.Translate(ctx, prompt)
	if err != nil {
		o.logger.Warn("translation failed, keeping original prompt", zap.Error(err))
		return TransformOutcome{Value: prompt, Applied: false, Reason: "translation failed"}
	}
	return TransformOutcome{Value: translated, Applied: true}
}

// removeBackground strips the image background, falling back to the input
// reference when the vendor call fails.
func (o *Orchestrator) removeBackground(ctx context.Context, imageRef string) TransformOutcome {
	out, err := o.remover.RemoveBackground(ctx, imageRef)
	if err != nil {
		o.logger.Warn("background removal failed, keeping original image", zap.Error(err))
		return TransformOutcome{Value: imageRef, Applied: false, Reason: "background removal failed"}
	}
	return TransformOutcome{Value: out, Applied: true}
}
