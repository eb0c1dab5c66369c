package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedValues_KeepsKeyOrder(t *testing.T) {
	var o OrderedValues
	err := json.Unmarshal([]byte(`{"steel": 30, "concrete": 50, "timber": 12.5}`), &o)
	require.NoError(t, err)

	assert.Equal(t, []string{"steel", "concrete", "timber"}, o.Keys())
	assert.Equal(t, []float64{30, 50, 12.5}, o.Values())
	assert.InDelta(t, 92.5, o.Sum(), 1e-9)
}

func TestOrderedValues_NullAndDuplicates(t *testing.T) {
	t.Run("null object", func(t *testing.T) {
		var o OrderedValues
		require.NoError(t, json.Unmarshal([]byte(`null`), &o))
		assert.Equal(t, 0, o.Len())
	})

	t.Run("null value decodes as zero", func(t *testing.T) {
		var o OrderedValues
		require.NoError(t, json.Unmarshal([]byte(`{"glass": null}`), &o))
		v, ok := o.Get("glass")
		assert.True(t, ok)
		assert.Equal(t, 0.0, v)
	})

	t.Run("repeated key keeps first position", func(t *testing.T) {
		var o OrderedValues
		require.NoError(t, json.Unmarshal([]byte(`{"a": 1, "b": 2, "a": 3}`), &o))
		assert.Equal(t, []string{"a", "b"}, o.Keys())
		assert.Equal(t, []float64{3, 2}, o.Values())
	})

	t.Run("rejects non-numbers", func(t *testing.T) {
		var o OrderedValues
		assert.Error(t, json.Unmarshal([]byte(`{"a": "x"}`), &o))
		assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &o))
	})
}

func TestOrderedValues_MarshalInOrder(t *testing.T) {
	o := FromPairs("concrete", 50, "steel", 30.25)
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"concrete":50,"steel":30.25}`, string(b))
}

func TestEcBreakdownTree_Decode(t *testing.T) {
	t.Run("object form", func(t *testing.T) {
		var tree EcBreakdownTree
		err := json.Unmarshal([]byte(`{"categories":[{"name":"substructure","total":100,
			"elements":[{"name":"slab","total":100,"materials":[{"name":"concrete","total":100}]}]}]}`), &tree)
		require.NoError(t, err)
		require.Len(t, tree.Categories, 1)
		assert.Equal(t, "slab", tree.Categories[0].Elements[0].Name)
		assert.Equal(t, 100.0, tree.Categories[0].Elements[0].Materials[0].Total)
	})

	t.Run("bare array form", func(t *testing.T) {
		var tree EcBreakdownTree
		err := json.Unmarshal([]byte(`[{"name":"superstructure","total":5}]`), &tree)
		require.NoError(t, err)
		require.Len(t, tree.Categories, 1)
		assert.Nil(t, tree.Categories[0].Elements)
	})

	t.Run("missing materials", func(t *testing.T) {
		var tree EcBreakdownTree
		err := json.Unmarshal([]byte(`{"categories":[{"name":"c","elements":[{"name":"e","total":3}]}]}`), &tree)
		require.NoError(t, err)
		assert.Empty(t, tree.Categories[0].Elements[0].Materials)
	})

	t.Run("null", func(t *testing.T) {
		var tree EcBreakdownTree
		require.NoError(t, json.Unmarshal([]byte(`null`), &tree))
		assert.True(t, tree.Empty())
	})
}

func TestProject_Versions(t *testing.T) {
	p := &Project{Versions: []UploadVersion{
		{Version: 2, Status: StatusCompleted},
		{Version: 3, Status: StatusProcessing},
		{Version: 1, Status: StatusCompleted},
	}}

	latest, ok := p.LatestVersion()
	require.True(t, ok)
	assert.Equal(t, 3, latest.Version)
	assert.False(t, latest.Completed())

	v, ok := p.FindVersion(1)
	assert.True(t, ok)
	assert.True(t, v.Completed())

	_, ok = p.FindVersion(9)
	assert.False(t, ok)

	_, ok = (&Project{}).LatestVersion()
	assert.False(t, ok)
}
