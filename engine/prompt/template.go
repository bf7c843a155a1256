package prompt

import (
	"strings"
	"text/template"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// Five-step chain-of-thought reasoning template. The labeled steps steer the
// extractive model toward a well-formed span instead of a stray fragment.
const cotTemplate = `Ты опытный медицинский специалист с 15-летним стажем работы в поликлинике.
Ответь на вопрос пациента, следуя пошаговому рассуждению.

КОНТЕКСТ (информация из базы знаний):
{{.Context}}

ВОПРОС ПАЦИЕНТА: {{.Query}}

РАССУЖДЕНИЕ:
1. Анализ вопроса:
   - Определи тип вопроса: {{.Type}}
   - Ключевые слова: {{.Keywords}}
   - Что именно спрашивает пациент?

2. Поиск релевантной информации:
   - Какие данные из контекста могут помочь ответить?
   - Есть ли в контексте прямые ответы на вопрос?
   - Релевантные части контекста:
{{.RelevantLines}}

3. Формулировка ответа:
   - Как лучше структурировать ответ?
   - Нужно ли использовать списки, таблицы или простой текст?
   - Какие дополнительные детали будут полезны пациенту?

4. Проверка и рекомендации:
   - Достаточно ли информации для полного ответа?
   - Какие дополнительные рекомендации можно дать?
   - Нужно ли посоветовать пациенту уточнить что-то у врача?

5. Итоговый ответ:
   - Сформулируй окончательный ответ на основе предыдущих шагов
   - Используй профессиональный, но доступный язык

УКАЗАНИЕ ДЛЯ ОТВЕТА:
{{.Instruction}}

ОТВЕТ ВРАЧА:`

// Per-type instruction bodies, one per QuestionType variant.
var typeInstructions = map[domain.QuestionType]string{
	domain.TypeAppointment: "Дай подробную инструкцию о том, как записаться на прием к врачу. " +
		"Укажи все возможные способы записи и необходимые документы.",
	domain.TypeDocuments: "Составь полный список документов, необходимых для медицинских процедур. " +
		"Объясни, для чего нужен каждый документ.",
	domain.TypeTests: "Перечисли все необходимые анализы и исследования. " +
		"Объясни, как к ним подготовиться и как получить результаты.",
	domain.TypePreparation: "Дай детальные рекомендации по подготовке к медицинским процедурам. " +
		"Укажи все ограничения и требования.",
	domain.TypeGeneral: "Ответь на вопрос пациента, используя информацию из контекста. " +
		"Если информации недостаточно, уточни, что нужно сделать для получения точного ответа.",
}

var cot = template.Must(template.New("cot").Parse(cotTemplate))

type cotData struct {
	Context       string
	Query         string
	Type          string
	Keywords      string
	RelevantLines string
	Instruction   string
}

// Context builds the PromptContext view for a query: extracted keywords plus
// the context lines they match.
func Context(typ domain.QuestionType, context, query string) domain.PromptContext {
	keywords := ExtractKeywords(query)
	return domain.PromptContext{
		Context:       context,
		Query:         query,
		Type:          typ,
		Keywords:      keywords,
		RelevantLines: RelevantLines(keywords, context),
	}
}

// ComposeInstruction renders the chain-of-thought instruction for a query:
// the fixed five-step template parameterized with the context, extracted
// keywords, relevant context lines, and the type-specific instruction body.
func ComposeInstruction(typ domain.QuestionType, context, query string) string {
	pc := Context(typ, context, query)

	var b strings.Builder
	// Template rendering only fails on invalid field access; the data struct
	// always matches.
	_ = cot.Execute(&b, cotData{
		Context:       pc.Context,
		Query:         pc.Query,
		Type:          pc.Type.String(),
		Keywords:      strings.Join(pc.Keywords, ", "),
		RelevantLines: strings.Join(pc.RelevantLines, "\n"),
		Instruction:   typeInstructions[typ],
	})
	return b.String()
}
