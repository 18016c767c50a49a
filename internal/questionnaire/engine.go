package questionnaire

import (
	"github.com/communix/communix-api/internal/models"
)

// EffectiveSequence returns the catalog indexes of the questions visible
// given the answers collected so far, in catalog order. Evaluation is
// sequential: each question's condition may reference any earlier answer.
func EffectiveSequence(catalog []Question, selections Selections) []int {
	sequence := make([]int, 0, len(catalog))
	for index, question := range catalog {
		if question.Condition != nil && !conditionMet(*question.Condition, selections) {
			continue
		}
		sequence = append(sequence, index)
	}
	return sequence
}

func conditionMet(condition Condition, selections Selections) bool {
	selection, ok := selections[condition.Question]
	if !ok {
		return false
	}
	for _, value := range selection.Values {
		if value == condition.Answer {
			return true
		}
	}
	return false
}

// Toggle applies one option pick to the selections and returns the updated
// set. The first catalog question is single-select: picking an option
// replaces any prior value. Every later question is multi-select: picking an
// option adds it, picking it again removes it.
func Toggle(catalog []Question, selections Selections, index int, option string) (Selections, error) {
	if index < 0 || index >= len(catalog) {
		return nil, ErrQuestionOutOfRange
	}
	if !catalog[index].hasOption(option) {
		return nil, ErrUnknownOption
	}

	updated := make(Selections, len(selections)+1)
	for key, value := range selections {
		updated[key] = Selection{Single: value.Single, Values: append([]string(nil), value.Values...)}
	}

	if index == 0 {
		updated[0] = Selection{Single: true, Values: []string{option}}
		return updated, nil
	}

	current := updated[index]
	for position, value := range current.Values {
		if value == option {
			current.Values = append(current.Values[:position], current.Values[position+1:]...)
			if len(current.Values) == 0 {
				delete(updated, index)
			} else {
				updated[index] = current
			}
			return updated, nil
		}
	}

	current.Values = append(current.Values, option)
	updated[index] = current
	return updated, nil
}

// Normalize checks that every effective question has a non-empty answer set
// and converts the selections into the persisted form: one ordered entry per
// effective question. The returned *IncompleteError carries the position of
// the first unanswered question within the effective sequence.
func Normalize(catalog []Question, selections Selections) ([]models.OnboardingAnswer, error) {
	sequence := EffectiveSequence(catalog, selections)

	answers := make([]models.OnboardingAnswer, 0, len(sequence))
	for position, index := range sequence {
		selection, ok := selections[index]
		if !ok || len(selection.Values) == 0 {
			return nil, &IncompleteError{Index: position}
		}
		for _, value := range selection.Values {
			if !catalog[index].hasOption(value) {
				return nil, ErrUnknownOption
			}
		}
		answers = append(answers, models.OnboardingAnswer{
			Question: catalog[index].Text,
			Answers:  append([]string(nil), selection.Values...),
		})
	}

	return answers, nil
}
