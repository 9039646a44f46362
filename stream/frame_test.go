package stream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColourText(t *testing.T) {
	c := MustHex("#3b82f6")
	b, err := json.Marshal(struct {
		C Colour `json:"c"`
	}{c})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"#3b82f6"}`, string(b))

	var out struct {
		C Colour `json:"c"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "#3b82f6", out.C.Hex())

	assert.Error(t, json.Unmarshal([]byte(`{"c":"blue"}`), &out))
}

func TestColourBlendEndpoints(t *testing.T) {
	a := MustHex("#3b82f6")
	b := MustHex("#ef4444")
	assert.Equal(t, a.Hex(), a.Blend(b, 0).Hex())
	assert.Equal(t, b.Hex(), a.Blend(b, 1).Hex())
}

func TestMustHexPanics(t *testing.T) {
	assert.Panics(t, func() { MustHex("nope") })
}

func TestFrameMarshalBinary(t *testing.T) {
	f := NewFrame(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	f.Total = 1024560
	f.TotalText = "1.024.560"
	f.Cards = []Card{{Key: CardResolved, Label: "RESOLVIDOS (24H)", Value: 2450, Text: "2.450"}}
	f.Highlight = &ActiveHighlight{Highlight: DefaultHighlights()[0], Index: 0, Count: 4, Accent: KindDemand.Accent()}

	b, err := f.MarshalBinary()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "1.024.560", decoded["totalText"])

	hl := decoded["highlight"].(map[string]interface{})
	assert.Equal(t, "demand", hl["kind"])
	assert.Equal(t, "MAIS SOLICITADO", hl["label"])
	assert.Equal(t, "#3b82f6", hl["accent"])

	c, ok := f.Card(CardResolved)
	require.True(t, ok)
	assert.Equal(t, int64(2450), c.Value)
	_, ok = f.Card("missing")
	assert.False(t, ok)
}

func TestGradientHeat(t *testing.T) {
	idle := LoadGradient.GetColor(0, 0.7, 0.65)
	full := LoadGradient.GetColor(1, 0.7, 0.65)
	past := LoadGradient.GetColor(1.5, 0.7, 0.65)
	before := LoadGradient.GetColor(-1, 0.7, 0.65)

	assert.Equal(t, full.Hex(), past.Hex())
	assert.Equal(t, idle.Hex(), before.Hex())

	// Idle is green-dominant, full load red-dominant.
	assert.Greater(t, idle.G, idle.R)
	assert.Greater(t, full.R, full.G)

	assert.Equal(t, Colour(full).Hex(), LoadGradient.Heat(100).Hex())
}

func TestHighlightKindAccent(t *testing.T) {
	assert.Equal(t, "#ef4444", KindAlert.Accent().Hex())
	assert.Equal(t, KindDemand.Accent(), HighlightKind("other").Accent())
}
