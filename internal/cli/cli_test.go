package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
		-45000:  "-45,000",
		100000:  "100,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatEC(t *testing.T) {
	assert.Equal(t, "9,999 kg", FormatEC(9999.4))
	assert.Equal(t, "12.5 t", FormatEC(12500))
}

func TestFormatShare(t *testing.T) {
	assert.Equal(t, "25.0%", FormatShare(1, 4))
	assert.Equal(t, "-", FormatShare(1, 0))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Material", "EC"},
		Rows:    [][]string{{"Concrete", "700 kg"}, {"Steel", "300 kg"}},
	})
	assert.Contains(t, out, "Material")
	assert.Contains(t, out, "Concrete")
	assert.Contains(t, out, "300 kg")
	assert.Equal(t, 1, strings.Count(out, "Steel"))
}
