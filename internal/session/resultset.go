package session

import (
	"bytes"
	"encoding/json"
	"uwsched/internal/schedule"

	"github.com/elliotchance/orderedmap/v2"
)

// ResultSet maps query keys to their entries in the order the keys were
// first queried. Keys with no entries are never stored.
type ResultSet struct {
	entries *orderedmap.OrderedMap[string, []schedule.Entry]
}

func NewResultSet() ResultSet {
	return ResultSet{entries: orderedmap.NewOrderedMap[string, []schedule.Entry]()}
}

// Set stores entries under key, a key that is queried again keeps its
// original position. An empty slice leaves the set untouched.
func (r ResultSet) Set(key string, entries []schedule.Entry) bool {
	if len(entries) == 0 {
		return false
	}
	r.entries.Set(key, entries)
	return true
}

func (r ResultSet) Get(key string) ([]schedule.Entry, bool) {
	return r.entries.Get(key)
}

func (r ResultSet) Len() int {
	return r.entries.Len()
}

func (r ResultSet) Keys() []string {
	return r.entries.Keys()
}

// Each calls fn for every key in order.
func (r ResultSet) Each(fn func(key string, entries []schedule.Entry)) {
	for el := r.entries.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

func (r ResultSet) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for el := r.entries.Front(); el != nil; el = el.Next() {
		if el != r.entries.Front() {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(el.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(el.Value)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// IndentedJSON renders the set with 2 space indentation.
func (r ResultSet) IndentedJSON() (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
