package rerank

import (
	"testing"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

func TestFilter_Empty(t *testing.T) {
	var rr Lexical
	if got := rr.Filter("как записаться", nil); got != nil {
		t.Errorf("expected nil for empty hits, got %v", got)
	}
}

func TestFilter_DropsZeroSimilarity(t *testing.T) {
	// No lexical overlap with the query at all: every TF-IDF score is zero,
	// so the keyword step operates on an empty set and the result is empty.
	hits := []domain.SearchHit{
		{ID: 1, Question: "Сколько стоит парковка?", Answer: "Парковка бесплатная."},
		{ID: 2, Question: "Где находится буфет?", Answer: "Буфет на первом этаже."},
	}
	var rr Lexical
	got := rr.Filter("diabetes insulin dosage", hits)
	if len(got) != 0 {
		t.Fatalf("expected empty result for zero-overlap candidates, got %v", got)
	}
}

func TestFilter_RanksByLexicalOverlap(t *testing.T) {
	hits := []domain.SearchHit{
		{ID: 1, Question: "Где сдать анализы?", Answer: "В процедурном кабинете."},
		{ID: 2, Question: "Как оформить больничный лист?", Answer: "Обратитесь к врачу для оформления больничного листа."},
	}
	var rr Lexical
	got := rr.Filter("Как оформить больничный лист?", hits)
	if len(got) == 0 {
		t.Fatal("expected at least one hit")
	}
	if got[0].ID != 2 {
		t.Errorf("expected hit 2 ranked first, got %d", got[0].ID)
	}
}

func TestFilter_KeywordFallbackToTopHit(t *testing.T) {
	// The question overlaps the query (positive TF-IDF) but the answer shares
	// no long query token, so the keyword filter removes everything. The
	// top-scoring TF-IDF hit must come back instead of an empty list.
	hits := []domain.SearchHit{
		{ID: 1, Question: "Как получить справку в бассейн?", Answer: "Её выдаёт терапевт."},
		{ID: 2, Question: "Режим работы регистратуры", Answer: "Ежедневно, без выходных."},
	}
	var rr Lexical
	got := rr.Filter("Как получить справку?", hits)
	if len(got) != 1 {
		t.Fatalf("expected exactly the top TF-IDF hit, got %d hits", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected hit 1 as fallback, got %d", got[0].ID)
	}
}

func TestFilter_KeywordMatchIsCaseInsensitive(t *testing.T) {
	hits := []domain.SearchHit{
		{ID: 1, Question: "Оформление полиса", Answer: "ПОЛИС оформляется в страховой компании."},
	}
	var rr Lexical
	got := rr.Filter("где оформить полис ОМС", hits)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("expected case-insensitive keyword match, got %v", got)
	}
}

func TestFilter_Deterministic(t *testing.T) {
	hits := []domain.SearchHit{
		{ID: 1, Question: "Как записаться к врачу?", Answer: "Запись через сайт или по телефону."},
		{ID: 2, Question: "Как записаться на приём?", Answer: "Запись в регистратуре."},
		{ID: 3, Question: "Как отменить запись?", Answer: "Отмена записи через личный кабинет."},
	}
	var rr Lexical
	first := rr.Filter("как записаться к врачу", hits)
	second := rr.Filter("как записаться к врачу", hits)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic result count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("non-deterministic order at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestLongTokens(t *testing.T) {
	got := longTokens("Как оформить больничный лист?")
	want := []string{"оформить", "больничный", "лист"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTfidfScores_SharedTermsScorePositive(t *testing.T) {
	scores := tfidfScores("больничный лист", []string{
		"больничный лист оформляет врач",
		"парковка у клиники бесплатная",
	})
	if scores[0] <= 0 {
		t.Errorf("expected positive score for overlapping doc, got %f", scores[0])
	}
	if scores[1] != 0 {
		t.Errorf("expected zero score for disjoint doc, got %f", scores[1])
	}
	if scores[0] > 1.0000001 {
		t.Errorf("cosine of l2-normalized vectors must not exceed 1, got %f", scores[0])
	}
}
