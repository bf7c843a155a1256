package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
	"github.com/MedAssistAI/medqa-mvp/pkg/infer"
)

type mockExtractor struct {
	span    infer.Span
	err     error
	lastCtx string
	lastQ   string
}

func (m *mockExtractor) Extract(_ context.Context, question, context_ string) (infer.Span, error) {
	m.lastQ = question
	m.lastCtx = context_
	return m.span, m.err
}

func TestSynthesize_UsesExtractedSpan(t *testing.T) {
	ext := &mockExtractor{span: infer.Span{Answer: "Обратитесь к врачу для оформления больничного листа.", Score: 0.9}}
	s := New(ext, nil)

	got, err := s.Synthesize(context.Background(), "Во сколько открывается поликлиника?", "Вопрос: ...\nОтвет: ...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Обратитесь к врачу для оформления больничного листа." {
		t.Errorf("unexpected answer: %q", got)
	}
}

func TestSynthesize_EnhancedContextMarkers(t *testing.T) {
	ext := &mockExtractor{span: infer.Span{Answer: strings.Repeat("о", 20)}}
	s := New(ext, nil)

	evidence := "Вопрос: Как записаться?\nОтвет: Через сайт."
	query := "Как записаться к врачу?"
	if _, err := s.Synthesize(context.Background(), query, evidence); err != nil {
		t.Fatal(err)
	}

	for _, marker := range []string{"[ИНСТРУКЦИЯ]", "[КОНТЕКСТ]", "[КОНЕЦ КОНТЕКСТА]", evidence, query} {
		if !strings.Contains(ext.lastCtx, marker) {
			t.Errorf("enhanced context missing %q", marker)
		}
	}
	if ext.lastQ != query {
		t.Errorf("extractor received question %q, want %q", ext.lastQ, query)
	}
}

func TestSynthesize_ShortSpanFallsBack(t *testing.T) {
	ext := &mockExtractor{span: infer.Span{Answer: "  да  "}}
	s := New(ext, nil)

	got, err := s.Synthesize(context.Background(), "Какие документы нужны для ЭКГ?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Паспорт") {
		t.Errorf("expected documents fallback, got %q", got)
	}
	// documents != general, so the closing note is appended
	if !strings.Contains(got, "администратора клиники") {
		t.Errorf("expected closing note for non-general type, got %q", got)
	}
}

func TestSynthesize_EmptySpanGenericFallback(t *testing.T) {
	ext := &mockExtractor{span: infer.Span{Answer: ""}}
	s := New(ext, nil)

	got, err := s.Synthesize(context.Background(), "Во сколько открывается буфет?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "нет точного ответа") {
		t.Errorf("expected generic fallback, got %q", got)
	}
	if strings.Contains(got, "администратора клиники") {
		t.Errorf("general type must not get the closing note: %q", got)
	}
}

func TestSynthesize_ClosingNoteOnlyForNonGeneral(t *testing.T) {
	long := strings.Repeat("ответ ", 5)
	cases := []struct {
		query   string
		wantNote bool
	}{
		{"Как записаться к врачу?", true},
		{"Во сколько открывается поликлиника?", false},
	}
	for _, tc := range cases {
		ext := &mockExtractor{span: infer.Span{Answer: long}}
		s := New(ext, nil)
		got, err := s.Synthesize(context.Background(), tc.query, "")
		if err != nil {
			t.Fatal(err)
		}
		hasNote := strings.Contains(got, "администратора клиники")
		if hasNote != tc.wantNote {
			t.Errorf("query %q: closing note = %v, want %v", tc.query, hasNote, tc.wantNote)
		}
	}
}

func TestSynthesize_InferenceErrorPropagates(t *testing.T) {
	ext := &mockExtractor{err: domain.ErrInference}
	s := New(ext, nil)

	if _, err := s.Synthesize(context.Background(), "вопрос", ""); !errors.Is(err, domain.ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}

func TestFallbackAnswer_Selection(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"как записаться на приём", fallbackAppointment},
		{"какая справка нужна в бассейн", fallbackDocuments},
		{"где находится кабинет 14", fallbackGeneric},
	}
	for _, tc := range cases {
		if got := fallbackAnswer(tc.query); got != tc.want {
			t.Errorf("fallbackAnswer(%q): wrong fallback selected", tc.query)
		}
	}
}
