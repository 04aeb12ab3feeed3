package minecraft

import (
	"encoding/json"
	"strings"
)

// stringSlice is a slice of strings that can be unmarshalled from a string or a []string
type stringSlice []string

func (w *stringSlice) String() string {
	return strings.Join(*w, " ")
}

// UnmarshalJSON is needed because argument values sometimes are plain strings
func (w *stringSlice) UnmarshalJSON(data []byte) (err error) {
	if len(data) != 0 && data[0] == '[' {
		var arg []string
		if err := json.Unmarshal(data, &arg); err != nil {
			return err
		}
		*w = arg
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*w = []string{str}
	return nil
}

// MarshalJSON emits a bare string for single values to stay close to the
// documents mojang publishes
func (w stringSlice) MarshalJSON() ([]byte, error) {
	if len(w) == 1 {
		return json.Marshal(w[0])
	}
	return json.Marshal([]string(w))
}

// Argument is one entry of arguments.game / arguments.jvm. It either is a
// plain string or an object with rules attached
type Argument struct {
	Value stringSlice `json:"value"`
	Rules []Rule      `json:"rules,omitempty"`
}

// UnmarshalJSON is needed because an argument sometimes is a plain string
func (a *Argument) UnmarshalJSON(data []byte) (err error) {
	if len(data) != 0 && data[0] == '{' {
		type argumentAlias Argument
		var alias argumentAlias
		if err := json.Unmarshal(data, &alias); err != nil {
			return err
		}
		*a = Argument(alias)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	a.Value = []string{str}
	a.Rules = nil
	return nil
}

// MarshalJSON emits plain strings for rule-less single values
func (a Argument) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Value) == 1 {
		return json.Marshal(a.Value[0])
	}
	type argumentAlias Argument
	return json.Marshal(argumentAlias(a))
}

// Key is the normalized identity of an argument, used to de-duplicate
// arguments when merging descriptors
func (a *Argument) Key() string {
	return strings.Join(a.Value, " ")
}
