package domain

import "unicode/utf8"

// ValidateRecord checks a QARecord before ingestion. Length limits are
// measured in runes to match the ≤500/2000/200/100 character schema.
func ValidateRecord(r QARecord) error {
	if r.Question == "" {
		return NewValidationError("question", "", ErrEmptyQuestion)
	}
	if r.Answer == "" {
		return NewValidationError("answer", "", ErrEmptyAnswer)
	}
	if utf8.RuneCountInString(r.Question) > MaxQuestionLen {
		return NewValidationError("question", truncate(r.Question), ErrFieldTooLong)
	}
	if utf8.RuneCountInString(r.Answer) > MaxAnswerLen {
		return NewValidationError("answer", truncate(r.Answer), ErrFieldTooLong)
	}
	if utf8.RuneCountInString(r.URL) > MaxURLLen {
		return NewValidationError("url", truncate(r.URL), ErrFieldTooLong)
	}
	if utf8.RuneCountInString(r.Category) > MaxCategoryLen {
		return NewValidationError("category", truncate(r.Category), ErrFieldTooLong)
	}
	if r.Vector != nil && len(r.Vector) != VectorDims {
		return NewValidationError("vector", "", ErrDimensionMismatch)
	}
	return nil
}

// truncate shortens long field values for error messages.
func truncate(s string) string {
	const max = 40
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
