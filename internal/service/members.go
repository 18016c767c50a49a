package service

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// decodeMembers unpacks a JSON member list. Invalid or empty documents
// decode to an empty list.
func decodeMembers(data datatypes.JSON) []string {
	members := []string{}
	if len(data) == 0 {
		return members
	}
	_ = json.Unmarshal(data, &members)
	return members
}

// addMember appends a user to a member list unless already present,
// preserving insertion order.
func addMember(members []string, userID string) ([]string, bool) {
	for _, member := range members {
		if member == userID {
			return members, false
		}
	}
	return append(members, userID), true
}

// removeMember drops a user from a member list.
func removeMember(members []string, userID string) ([]string, bool) {
	for i, member := range members {
		if member == userID {
			return append(members[:i:i], members[i+1:]...), true
		}
	}
	return members, false
}

func encodeMembers(members []string) datatypes.JSON {
	encoded, _ := json.Marshal(members)
	return datatypes.JSON(encoded)
}
