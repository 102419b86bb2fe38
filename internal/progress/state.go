package progress

import "encoding/json"

type ExerciseProgress struct {
	CompletedSets int `json:"completedSets"`
}

// State is the completion state, the only persisted mutable fact.
type State map[string]ExerciseProgress

func (s State) Clone() State {
	clone := make(State, len(s))
	for id, p := range s {
		clone[id] = p
	}
	return clone
}

// Marshal serializes the state. Keys come out sorted, so equal states
// always produce the same bytes.
func (s State) Marshal() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// normalize fills in planned exercises missing from the state and clamps
// counters into [0, sets]. It reports whether anything changed.
func (s State) normalize(plan *Plan) bool {
	changed := false
	for _, entry := range plan.entries {
		p, ok := s[entry.ID]
		switch {
		case !ok:
			s[entry.ID] = ExerciseProgress{}
			changed = true
		case p.CompletedSets < 0:
			s[entry.ID] = ExerciseProgress{}
			changed = true
		case p.CompletedSets > entry.Sets:
			s[entry.ID] = ExerciseProgress{CompletedSets: entry.Sets}
			changed = true
		}
	}
	return changed
}
