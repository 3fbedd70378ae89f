package climber

import (
	"encoding/json"
)

// The record store is schemaless enough that list-valued fields arrive
// either as real JSON arrays or as strings containing an encoded array
// (older clients wrote the latter). Each wrapper type below normalizes at
// decode time so the rest of the code sees exactly one representation.
// Anything unparsable degrades to empty rather than failing the decode.

// IDList is a list of record ids.
type IDList []string

func (l *IDList) UnmarshalJSON(data []byte) error {
	*l = decodeStringList(data)
	return nil
}

// StyleList is a list of climbing styles.
type StyleList []Style

func (l *StyleList) UnmarshalJSON(data []byte) error {
	raw := decodeStringList(data)
	styles := make([]Style, 0, len(raw))
	for _, s := range raw {
		styles = append(styles, Style(s))
	}
	*l = styles
	return nil
}

// IntentList is a list of declared intents. On top of the array-or-string
// rule, a bare intent string ("date") is accepted as a one-element list;
// profiles created before multi-intent support stored it that way.
type IntentList []Intent

func (l *IntentList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		switch Intent(single) {
		case IntentDate, IntentPartner:
			*l = IntentList{Intent(single)}
			return nil
		}
		// fall through: may be an encoded array
	}
	raw := decodeStringList(data)
	intents := make([]Intent, 0, len(raw))
	for _, s := range raw {
		intents = append(intents, Intent(s))
	}
	*l = intents
	return nil
}

// UnmarshalJSON accepts a grade object, a bare level string ("advanced"),
// or a string containing an encoded grade object. Unparsable input leaves
// the grade zero.
func (g *Grade) UnmarshalJSON(data []byte) error {
	type plain Grade
	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil {
		*g = Grade(obj)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*g = Grade{}
		return nil
	}
	switch Level(s) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert, LevelElite:
		*g = Grade{Level: Level(s)}
		return nil
	}
	var nested plain
	if err := json.Unmarshal([]byte(s), &nested); err == nil {
		*g = Grade(nested)
		return nil
	}
	*g = Grade{}
	return nil
}

// decodeStringList applies the array-or-encoded-string rule and returns
// nil for anything else.
func decodeStringList(data []byte) []string {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		return nil
	}
	return arr
}
