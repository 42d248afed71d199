// internal/models/membership.go
package models

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Term is one fuzzy term with its membership degree in [0,1].
type Term struct {
	Name   string  `json:"name"`
	Degree float64 `json:"degree"`
}

// MembershipBreakdown keeps terms in the order the service sent them.
type MembershipBreakdown []Term

// ParseMembership reads a JSON object of term -> degree without losing key order.
// Non-numeric degrees are skipped.
func ParseMembership(r gjson.Result) MembershipBreakdown {
	if !r.IsObject() {
		return nil
	}
	var out MembershipBreakdown
	r.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			out = append(out, Term{Name: key.String(), Degree: value.Float()})
		}
		return true
	})
	return out
}

// Degree returns the degree for name.
func (m MembershipBreakdown) Degree(name string) (float64, bool) {
	for _, t := range m {
		if t.Name == name {
			return t.Degree, true
		}
	}
	return 0, false
}

// Names lists the terms in service order.
func (m MembershipBreakdown) Names() []string {
	names := make([]string, len(m))
	for i, t := range m {
		names[i] = t.Name
	}
	return names
}

// MarshalJSON writes the breakdown back as an ordered object.
func (m MembershipBreakdown) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, t := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.Degree)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}
