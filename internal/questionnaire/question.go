// Package questionnaire implements the branching multiple-choice question
// sequences used during user onboarding and community join flows.
package questionnaire

import (
	"errors"
	"fmt"
)

// TypeTopicAccess marks the synthesized question that grants a joining role
// visibility into a subset of a community's topics.
const TypeTopicAccess = "topicAccess"

// Question is one multiple-choice question in a sequence.
type Question struct {
	Text      string     `json:"text"`
	Type      string     `json:"type,omitempty"`
	Options   []string   `json:"options"`
	Condition *Condition `json:"condition,omitempty"`
}

// Condition gates a question on an answer selected for an earlier question.
// Question indexes into the full catalog, not the effective sequence, so a
// follow-up stays pinned to the question it depends on even when other
// conditional questions appear or disappear.
type Condition struct {
	Question int    `json:"question"`
	Answer   string `json:"answer"`
}

// Selection is the in-progress answer for one question slot. Single-select
// slots hold exactly one value that is replaced on every pick; multi-select
// slots hold a toggled set in selection order.
type Selection struct {
	Single bool     `json:"single"`
	Values []string `json:"values"`
}

// Selections maps catalog question index to the answer collected so far.
type Selections map[int]Selection

var (
	// ErrUnknownProfession indicates there is no catalog for the profession.
	ErrUnknownProfession = errors.New("unknown profession")
	// ErrUnknownOption indicates the option is not part of the question.
	ErrUnknownOption = errors.New("option not offered by question")
	// ErrQuestionOutOfRange indicates the question index is not in the catalog.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrUnknownRole indicates a community has no questionnaire for the role.
	ErrUnknownRole = errors.New("no questionnaire configured for role")
)

// IncompleteError reports the first effective question left unanswered.
type IncompleteError struct {
	Index int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("questionnaire incomplete: question %d is unanswered", e.Index)
}

func (q Question) hasOption(option string) bool {
	for _, candidate := range q.Options {
		if candidate == option {
			return true
		}
	}
	return false
}
