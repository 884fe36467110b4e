package state

// Proposal is the typed view of the state blob.
type Proposal struct {
	Name      string `json:"name"`
	Accepted  bool   `json:"accepted"`
	Day       string `json:"day"`
	Time      string `json:"time"`
	Mood      string `json:"mood"`
	Note      string `json:"note"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// FromMapping reads known fields, ignoring values of the wrong type.
func FromMapping(m Mapping) Proposal {
	return Proposal{
		Name:      stringField(m, "name"),
		Accepted:  boolField(m, "accepted"),
		Day:       stringField(m, "day"),
		Time:      stringField(m, "time"),
		Mood:      stringField(m, "mood"),
		Note:      stringField(m, "note"),
		UpdatedAt: stringField(m, UpdatedAtField),
	}
}

// Patch returns the proposal as a write patch, without the update stamp.
func (p Proposal) Patch() Mapping {
	return Mapping{
		"name":     p.Name,
		"accepted": p.Accepted,
		"day":      p.Day,
		"time":     p.Time,
		"mood":     p.Mood,
		"note":     p.Note,
	}
}

func stringField(m Mapping, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m Mapping, key string) bool {
	b, _ := m[key].(bool)
	return b
}
