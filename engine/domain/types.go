// Package domain defines core domain types, constants, and validation for the
// medqa engine pipeline. It acts as the validation gate at ingestion entry points.
package domain

// VectorDims is the embedding dimensionality of multilingual-e5-large.
const VectorDims = 1024

// Field length limits enforced at ingestion. The vector store itself does not
// constrain payload sizes, so the limits live here.
const (
	MaxQuestionLen = 500
	MaxAnswerLen   = 2000
	MaxURLLen      = 200
	MaxCategoryLen = 100
)

// QARecord is a single question/answer entry in the collection. Records are
// created during ingestion and immutable afterwards; upserting a record with
// an existing ID overwrites the stored point.
type QARecord struct {
	ID       int64     `json:"id"`
	Vector   []float32 `json:"-"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	URL      string    `json:"url"`
	Category string    `json:"category"`
}

// SearchHit is a read-only view of a stored record bound to a similarity
// score. Produced per query, discarded after the query completes.
type SearchHit struct {
	ID       int64   `json:"id"`
	Score    float32 `json:"score"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	URL      string  `json:"url"`
	Category string  `json:"category"`
}

// QuestionType classifies a patient query. Derived from the query's lexical
// content on every call, never persisted.
type QuestionType int

const (
	TypeAppointment QuestionType = iota
	TypeDocuments
	TypeTests
	TypePreparation
	TypeGeneral
)

func (t QuestionType) String() string {
	switch t {
	case TypeAppointment:
		return "appointment"
	case TypeDocuments:
		return "documents"
	case TypeTests:
		return "tests"
	case TypePreparation:
		return "preparation"
	case TypeGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// PromptContext carries everything the instruction template needs for one
// query. Constructed per call, fed once into synthesis, discarded.
type PromptContext struct {
	Context       string
	Query         string
	Type          QuestionType
	Keywords      []string
	RelevantLines []string
}
