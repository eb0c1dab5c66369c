package domain

import (
	"bytes"
	"encoding/json"
)

// EcBreakdownTree is the category → element → material breakdown of one
// version. Category totals are trusted as sent by the backend.
type EcBreakdownTree struct {
	Categories []TreeCategory `json:"categories"`
}

type TreeCategory struct {
	Name     string        `json:"name"`
	Total    float64       `json:"total"`
	Elements []TreeElement `json:"elements"`
}

type TreeElement struct {
	Name      string         `json:"name"`
	Total     float64        `json:"total"`
	Materials []TreeMaterial `json:"materials"`
}

type TreeMaterial struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// UnmarshalJSON accepts either {"categories": [...]} or a bare array of
// categories. Missing fields decode to empty sequences.
func (t *EcBreakdownTree) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		t.Categories = nil
		return nil
	}
	if trimmed[0] == '[' {
		var cats []TreeCategory
		if err := json.Unmarshal(trimmed, &cats); err != nil {
			return err
		}
		t.Categories = cats
		return nil
	}

	var wire struct {
		Categories []TreeCategory `json:"categories"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return err
	}
	t.Categories = wire.Categories
	return nil
}

// Empty reports whether the tree has no categories.
func (t *EcBreakdownTree) Empty() bool {
	return t == nil || len(t.Categories) == 0
}
