package palette

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickerDrawsFromPalette(t *testing.T) {
	p := NewPicker(42, nil)
	for i := 0; i < 200; i++ {
		assert.Contains(t, Default, p.Next())
	}
}

func TestPickerSeedIsDeterministic(t *testing.T) {
	a, b := NewPicker(7, nil), NewPicker(7, nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestPickerSingleColor(t *testing.T) {
	p := NewPicker(1, []Color{Olive})
	assert.Equal(t, Olive, p.Next())
}

func TestColorFormatting(t *testing.T) {
	assert.Equal(t, "#88ccff", LightBlue.Hex())
	assert.Equal(t, [3]float32{1, 1, 1}, White.RGB())

	out, err := json.Marshal(Red)
	require.NoError(t, err)
	assert.Equal(t, `"#cc3333"`, string(out))
}

func TestColorRoundTrip(t *testing.T) {
	var c Color
	require.NoError(t, json.Unmarshal([]byte(`"#9966ff"`), &c))
	assert.Equal(t, Purple, c)

	assert.Error(t, json.Unmarshal([]byte(`"purple"`), &c))
}
