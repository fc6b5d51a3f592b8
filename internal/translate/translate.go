// Package translate renders assistant messages in the candidate's language.
package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/utils"
)

// Source is the language every message is written in.
const Source = "en"

// Languages maps the supported codes to their display names.
var Languages = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"hi": "Hindi",
}

// Codes lists the supported languages in menu order.
var Codes = []string{"en", "fr", "es", "de", "hi"}

// Supported reports whether code is a known language.
func Supported(code string) bool {
	_, ok := Languages[code]
	return ok
}

// Translator renders text in lang, returning text unchanged on any failure.
type Translator interface {
	Translate(ctx context.Context, text, lang string) string
}

// Noop returns every text untouched.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _ string) string { return text }

const systemPrompt = "You are a professional translator for a recruiting assistant. " +
	"Translate the user's message and reply with the translation only. " +
	"Keep emojis, line breaks, quoted words and technology names as they are."

// LLM translates through a language model. Translations of the texts
// registered with WithCached are kept; everything else is translated on
// every call, so the cache never outgrows len(cached) * len(Languages).
type LLM struct {
	llm       ai.Generator
	logger    *zap.Logger
	cacheable map[string]struct{}

	mu    sync.RWMutex
	cache map[cacheKey]string
}

// Option customizes an LLM translator.
type Option func(*LLM)

// WithCached marks texts whose translations are reused across calls.
func WithCached(texts ...string) Option {
	return func(t *LLM) {
		for _, text := range texts {
			t.cacheable[text] = struct{}{}
		}
	}
}

type cacheKey struct {
	lang string
	text string
}

func NewLLM(llm ai.Generator, logger *zap.Logger, opts ...Option) *LLM {
	if llm == nil {
		llm = ai.Unavailable{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &LLM{
		llm:       llm,
		logger:    logger,
		cacheable: make(map[string]struct{}),
		cache:     make(map[cacheKey]string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *LLM) Translate(ctx context.Context, text, lang string) string {
	if lang == "" || lang == Source || strings.TrimSpace(text) == "" {
		return text
	}
	name, ok := Languages[lang]
	if !ok {
		t.logger.Warn("unsupported language, keeping source text", zap.String("language", lang))
		return text
	}

	key := cacheKey{lang: lang, text: text}
	_, cacheable := t.cacheable[text]
	if cacheable {
		t.mu.RLock()
		cached, ok := t.cache[key]
		t.mu.RUnlock()
		if ok {
			return cached
		}
	}

	prompt := fmt.Sprintf("Translate the following text from English to %s:\n\n%s", name, text)
	out, err := t.llm.GenerateContent(ctx, systemPrompt, prompt)
	out = strings.TrimSpace(out)
	if err == nil && out == "" {
		err = ai.Failf(ai.FailureEmpty, "translate", "empty translation")
	}
	if err != nil {
		failure := ai.AsFailure("translate", err)
		t.logger.Warn("translation failed, keeping source text",
			zap.String("language", lang),
			zap.String("failure_kind", string(failure.Kind)),
			zap.String("text_preview", utils.TruncateForLog(text, 80)),
			zap.Error(failure),
		)
		return text
	}

	if cacheable {
		t.mu.Lock()
		t.cache[key] = out
		t.mu.Unlock()
	}
	return out
}
