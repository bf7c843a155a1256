package answer

import "strings"

// Canned fallback answers, selected by keyword match on the query when
// extraction produces nothing usable.
const (
	fallbackAppointment = "Записаться на прием к врачу можно несколькими способами:\n\n" +
		"1. Через сайт клиники\n" +
		"2. По телефону регистратуры\n" +
		"3. Через мобильное приложение\n" +
		"4. Лично в регистратуре\n\n" +
		"Для записи потребуется паспорт и полис ОМС."

	fallbackDocuments = "Для медицинских процедур обычно требуются:\n" +
		"- Паспорт\n" +
		"- Полис ОМС\n" +
		"- СНИЛС (по желанию)\n" +
		"- Направление от врача (для некоторых процедур)\n\n" +
		"Уточните полный список в регистратуре вашей поликлиники."

	fallbackGeneric = "К сожалению, в нашей базе нет точного ответа на этот вопрос.\n" +
		"Рекомендуем обратиться в регистратуру вашей поликлиники или к лечащему врачу."
)

var (
	appointmentTriggers = []string{"записаться", "прием", "приём", "регистратура"}
	documentTriggers    = []string{"документ", "справка", "полис"}
)

// fallbackAnswer picks the canned answer for a query that extraction could
// not serve.
func fallbackAnswer(query string) string {
	lower := strings.ToLower(query)
	for _, kw := range appointmentTriggers {
		if strings.Contains(lower, kw) {
			return fallbackAppointment
		}
	}
	for _, kw := range documentTriggers {
		if strings.Contains(lower, kw) {
			return fallbackDocuments
		}
	}
	return fallbackGeneric
}
