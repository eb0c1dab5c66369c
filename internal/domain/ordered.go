package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// KeyValue is one entry of an OrderedValues mapping.
type KeyValue struct {
	Key   string
	Value float64
}

// OrderedValues is a string → number mapping that keeps the key order of the
// JSON object it was decoded from. Go maps lose that order, and chart labels
// must follow it.
type OrderedValues []KeyValue

// Len returns the number of entries.
func (o OrderedValues) Len() int { return len(o) }

// Keys returns the keys in order.
func (o OrderedValues) Keys() []string {
	out := make([]string, 0, len(o))
	for _, kv := range o {
		out = append(out, kv.Key)
	}
	return out
}

// Values returns the values in key order.
func (o OrderedValues) Values() []float64 {
	out := make([]float64, 0, len(o))
	for _, kv := range o {
		out = append(out, kv.Value)
	}
	return out
}

// Get returns the value stored under key.
func (o OrderedValues) Get(key string) (float64, bool) {
	for _, kv := range o {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return 0, false
}

// Set updates key in place or appends it.
func (o *OrderedValues) Set(key string, v float64) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = v
			return
		}
	}
	*o = append(*o, KeyValue{Key: key, Value: v})
}

// Sum adds up all values.
func (o OrderedValues) Sum() float64 {
	var total float64
	for _, kv := range o {
		total += kv.Value
	}
	return total
}

// FromPairs builds an OrderedValues from alternating key/value arguments,
// mostly for tests and fixtures.
func FromPairs(pairs ...any) OrderedValues {
	out := make(OrderedValues, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		var v float64
		switch n := pairs[i+1].(type) {
		case float64:
			v = n
		case int:
			v = float64(n)
		}
		out.Set(key, v)
	}
	return out
}

// MarshalJSON writes the entries as a JSON object in order.
func (o OrderedValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(kv.Value, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order. null values decode as
// 0; a repeated key keeps its first position and its last value.
func (o *OrderedValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ordered values: expected object, got %v", tok)
	}

	out := OrderedValues{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ordered values: expected key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		var v float64
		switch n := valTok.(type) {
		case json.Number:
			v, err = n.Float64()
			if err != nil {
				return fmt.Errorf("ordered values: key %q: %w", key, err)
			}
		case nil:
			v = 0
		default:
			return fmt.Errorf("ordered values: key %q: expected number, got %v", key, valTok)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}
