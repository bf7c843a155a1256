// Package answer runs extractive question answering over an
// instruction-augmented context window and falls back to canned
// category-specific answers when extraction comes up empty.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
	"github.com/MedAssistAI/medqa-mvp/engine/prompt"
	"github.com/MedAssistAI/medqa-mvp/pkg/infer"
)

// An extracted span shorter than this (in runes, after trimming) is treated
// as unusable and replaced by a canned fallback.
const minAnswerLen = 10

const closingNote = "\n\nЕсли у вас остались вопросы, рекомендую уточнить детали " +
	"у администратора клиники или вашего лечащего врача."

// SpanExtractor abstracts the extractive QA inference service.
type SpanExtractor interface {
	Extract(ctx context.Context, question, passage string) (infer.Span, error)
}

// Synthesizer produces the final answer text for a query and its retrieved
// evidence context. Stateless between calls; safe for concurrent use.
type Synthesizer struct {
	extractor SpanExtractor
	logger    *slog.Logger
}

// New creates a Synthesizer.
func New(extractor SpanExtractor, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{extractor: extractor, logger: logger}
}

// Synthesize classifies the query, wraps the evidence context in a
// chain-of-thought instruction, runs a single extractive inference, and
// applies the fallback and closing-note policy. An empty or too-short span
// is a defined branch, not an error; inference transport failures propagate.
func (s *Synthesizer) Synthesize(ctx context.Context, query, evidence string) (string, error) {
	questionType := prompt.Classify(query)
	instruction := prompt.ComposeInstruction(questionType, evidence, query)
	enhanced := enhanceContext(instruction, evidence, query)

	span, err := s.extractor.Extract(ctx, query, enhanced)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}

	text := strings.TrimSpace(span.Answer)
	if utf8.RuneCountInString(text) < minAnswerLen {
		s.logger.Info("extraction too short, using fallback",
			"query_len", len(query), "span_len", len(text), "type", questionType.String())
		text = fallbackAnswer(query)
	}

	if questionType != domain.TypeGeneral {
		text += closingNote
	}
	return text, nil
}

// enhanceContext wraps the instruction and the raw evidence in delimiter
// markers with an explicit extraction directive.
func enhanceContext(instruction, evidence, query string) string {
	var b strings.Builder
	b.WriteString("[ИНСТРУКЦИЯ]\n")
	b.WriteString(instruction)
	b.WriteString("\nНайди в тексте ниже точный ответ на вопрос: \"")
	b.WriteString(query)
	b.WriteString("\".\nЕсли точного ответа нет, верни наиболее релевантный фрагмент.\n\n")
	b.WriteString("[КОНТЕКСТ]\n")
	b.WriteString(evidence)
	b.WriteString("\n[КОНЕЦ КОНТЕКСТА]")
	return b.String()
}
