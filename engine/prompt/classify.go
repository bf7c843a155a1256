// Package prompt classifies patient queries and composes the chain-of-thought
// instruction that steers extractive answer synthesis.
package prompt

import (
	"strings"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// classRule binds a question type to its trigger vocabulary.
type classRule struct {
	typ      domain.QuestionType
	keywords []string
}

// Rules are evaluated in priority order; the first match wins. A query
// containing both appointment and document vocabulary classifies as
// appointment.
var classRules = []classRule{
	{domain.TypeAppointment, []string{"записаться", "запись", "прием", "приём", "врач", "специалист"}},
	{domain.TypeDocuments, []string{"документ", "справка", "полис", "паспорт", "снилс"}},
	{domain.TypeTests, []string{"анализ", "тест", "исследование", "диабет", "глюкоза", "кровь", "моча"}},
	{domain.TypePreparation, []string{"подготовка", "подготовиться", "как подготовиться"}},
}

// Classify derives the question type from the query's lexical content.
// Defaults to general when no rule matches.
func Classify(query string) domain.QuestionType {
	lower := strings.ToLower(query)
	for _, rule := range classRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.typ
			}
		}
	}
	return domain.TypeGeneral
}
