package questionnaire

import (
	"errors"
	"fmt"
)

// ErrUndeclaredTopic reports a topic grant outside the community's declared
// topic set.
var ErrUndeclaredTopic = errors.New("topic access grants an undeclared topic")

// AssembleRoleQuestions builds the per-role join questionnaire stored on a
// community: for every role the granted topics become a leading synthetic
// "Topic Access" question, followed by the role's configured questions.
// Topic grants are validated against the community's declared topic set;
// roles with no explicit grant get an empty access list.
func AssembleRoleQuestions(topics []string, roleQuestions map[string][]Question, topicAccess map[string][]string) (map[string][]Question, error) {
	declared := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		declared[topic] = struct{}{}
	}

	for role, granted := range topicAccess {
		for _, topic := range granted {
			if _, ok := declared[topic]; !ok {
				return nil, fmt.Errorf("%w: role %q grants %q", ErrUndeclaredTopic, role, topic)
			}
		}
	}

	assembled := make(map[string][]Question, len(roleQuestions))
	for role, configured := range roleQuestions {
		granted := topicAccess[role]
		if granted == nil {
			granted = []string{}
		}

		sequence := make([]Question, 0, len(configured)+1)
		sequence = append(sequence, Question{
			Text:    "Topic Access",
			Type:    TypeTopicAccess,
			Options: append([]string(nil), granted...),
		})
		sequence = append(sequence, configured...)
		assembled[role] = sequence
	}

	return assembled, nil
}

// ForRole returns the join questionnaire served to a prospective member
// requesting the given role.
func ForRole(assembled map[string][]Question, role string) ([]Question, error) {
	sequence, ok := assembled[role]
	if !ok {
		return nil, ErrUnknownRole
	}
	return sequence, nil
}
