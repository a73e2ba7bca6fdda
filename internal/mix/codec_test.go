package mix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRange(c *Criteria, key string, min, max int) {
	for i := range c.Ranges {
		if c.Ranges[i].Key == key {
			c.Ranges[i].Min = min
			c.Ranges[i].Max = max
		}
	}
}

func setAttr(c *Criteria, key string, val TriState) {
	for i := range c.Attributes {
		if c.Attributes[i].Key == key {
			c.Attributes[i].Val = val
		}
	}
}

func rangeOf(c Criteria, key string) RangeFilter {
	for _, r := range c.Ranges {
		if r.Key == key {
			return r
		}
	}
	return RangeFilter{}
}

func attrOf(c Criteria, key string) TriState {
	for _, a := range c.Attributes {
		if a.Key == key {
			return a.Val
		}
	}
	return Unset
}

func TestTriState_NextCycles(t *testing.T) {
	v := Unset
	v = v.Next()
	assert.Equal(t, Present, v)
	v = v.Next()
	assert.Equal(t, Absent, v)
	v = v.Next()
	assert.Equal(t, Unset, v)
}

func TestDefaults(t *testing.T) {
	c := NewCriteria(nil)
	assert.Equal(t, []string{"duration", "bpm"}, RangeKeys())
	assert.Len(t, c.Attributes, 11)
	for _, a := range c.Attributes {
		assert.Equal(t, Unset, a.Val, a.Key)
	}
	for _, r := range c.Ranges {
		assert.Zero(t, r.Min)
		assert.Zero(t, r.Max)
	}
}

func TestDefaults_TranslatesLabels(t *testing.T) {
	tr := func(text string, _ ...any) string { return "[" + text + "]" }
	c := NewCriteria(tr)
	assert.Equal(t, "[BPM]", rangeOf(c, "bpm").Label)
	assert.Equal(t, "[Voice]", c.Attributes[len(c.Attributes)-1].Label)
}

func TestEncode_AllDefaultsIsNothingToSave(t *testing.T) {
	c := NewCriteria(nil)
	body, ok := c.Encode()
	assert.False(t, ok)
	assert.Empty(t, body)
}

func TestEncode_Scenario(t *testing.T) {
	c := NewCriteria(nil)
	setRange(&c, "duration", 120, 0)
	setAttr(&c, "happy", Present)
	c.Genres = []string{"Rock"}

	body, ok := c.Encode()
	require.True(t, ok)
	assert.JSONEq(t, `{"format":"text","minduration":120,"happy":"y","genre":["Rock"]}`, body)
}

func TestEncode_AbsentAttribute(t *testing.T) {
	c := NewCriteria(nil)
	setAttr(&c, "voice", Absent)
	body, ok := c.Encode()
	require.True(t, ok)
	assert.JSONEq(t, `{"format":"text","voice":"n"}`, body)
}

func TestDecode_Scenario(t *testing.T) {
	def, err := ParseDefinition(`{"format":"text","maxbpm":90,"voice":"n"}`)
	require.NoError(t, err)

	c := NewCriteria(nil)
	c.Decode(def, []string{"Rock", "Jazz"})

	bpm := rangeOf(c, "bpm")
	assert.Equal(t, 90, bpm.Max)
	assert.Equal(t, 0, bpm.Min)
	assert.Equal(t, Absent, attrOf(c, "voice"))
	for _, a := range c.Attributes {
		if a.Key != "voice" {
			assert.Equal(t, Unset, a.Val, a.Key)
		}
	}
	assert.Empty(t, c.Genres)
}

func TestDecode_ResetsFieldsMissingFromDefinition(t *testing.T) {
	c := NewCriteria(nil)
	setRange(&c, "duration", 10, 20)
	setAttr(&c, "dark", Present)
	c.Genres = []string{"Jazz"}

	c.Decode(Definition{"format": "text"}, []string{"Jazz"})
	assert.Equal(t, RangeFilter{Key: "duration", Label: "Duration (seconds)"}, rangeOf(c, "duration"))
	assert.Equal(t, Unset, attrOf(c, "dark"))
	assert.Empty(t, c.Genres)
}

func TestDecode_DropsUnknownGenres(t *testing.T) {
	def, err := ParseDefinition(`{"genre":["Polka","Jazz","Rock"]}`)
	require.NoError(t, err)

	c := NewCriteria(nil)
	c.Decode(def, []string{"Rock", "Jazz"})
	assert.Equal(t, []string{"Rock", "Jazz"}, c.Genres)
}

func TestDecode_AcceptsStringAndLegacyNumbers(t *testing.T) {
	def, err := ParseDefinition(`{"minduration":"90","maxduration":-5,"happy":75,"sad":20,"dark":50,"party":0}`)
	require.NoError(t, err)

	c := NewCriteria(nil)
	c.Decode(def, nil)
	assert.Equal(t, 90, rangeOf(c, "duration").Min)
	assert.Equal(t, 0, rangeOf(c, "duration").Max)
	assert.Equal(t, Present, attrOf(c, "happy"))
	assert.Equal(t, Absent, attrOf(c, "sad"))
	assert.Equal(t, Unset, attrOf(c, "dark"))
	assert.Equal(t, Unset, attrOf(c, "party"))
}

func TestRoundTrip(t *testing.T) {
	vocabulary := []string{"Blues", "Jazz", "Rock"}
	states := []TriState{Unset, Present, Absent}

	for i := 0; i < 27; i++ {
		src := NewCriteria(nil)
		setRange(&src, "duration", i*7, (i%4)*100)
		setRange(&src, "bpm", i%3*40, 0)
		for j := range src.Attributes {
			src.Attributes[j].Val = states[(i+j)%3]
		}
		if i%2 == 0 {
			src.Genres = vocabulary[:i%3+1]
		}

		body, ok := src.Encode()
		if !ok {
			continue
		}
		def, err := ParseDefinition(body)
		require.NoError(t, err)

		dst := NewCriteria(nil)
		dst.Decode(def, vocabulary)
		assert.Equal(t, src.Ranges, dst.Ranges, "ranges %d", i)
		assert.Equal(t, src.Attributes, dst.Attributes, "attributes %d", i)
		assert.Equal(t, len(src.Genres), len(dst.Genres), "genres %d", i)
	}
}

func TestParseDefinition_Errors(t *testing.T) {
	_, err := ParseDefinition("")
	assert.Error(t, err)

	_, err = ParseDefinition("{not-json")
	assert.Error(t, err)

	_, err = ParseDefinition(`["a"]`)
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = ParseDefinition(`{"format":"text","maxbpm":90} not json`)
	assert.Error(t, err)

	_, err = ParseDefinition(`{"maxbpm":90}{"minbpm":10}`)
	assert.Error(t, err)

	def, err := ParseDefinition("{\"maxbpm\":90}\n")
	require.NoError(t, err)
	assert.Contains(t, def, "maxbpm")
}

func TestBuild_CopiesGenres(t *testing.T) {
	c := NewCriteria(nil)
	c.Genres = []string{"Rock"}
	def, ok := c.Build()
	require.True(t, ok)

	c.Genres[0] = "Jazz"
	data, err := json.Marshal(def["genre"])
	require.NoError(t, err)
	assert.JSONEq(t, `["Rock"]`, string(data))
}
