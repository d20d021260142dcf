package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2024-01-15T10:30:00Z"`, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 nano", `"2024-01-15T10:30:00.123456789Z"`, time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC)},
		{"date only", `"2024-01-15"`, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"epoch ms number", `1705314600000`, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"epoch ms string", `"1705314600000"`, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ft))
			assert.True(t, tt.want.Equal(ft.Time), "got %s", ft.Time)
		})
	}
}

func TestFlexTime_UnmarshalJSON_Invalid(t *testing.T) {
	for _, input := range []string{`"last tuesday"`, `true`, `{}`} {
		var ft FlexTime
		assert.Error(t, json.Unmarshal([]byte(input), &ft), input)
	}
}

func TestFlexTime_MarshalJSON(t *testing.T) {
	ft := FlexTime{Time: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(ft)
	require.NoError(t, err)

	assert.Equal(t, `"2024-01-15T10:30:00Z"`, string(data))
}

func TestFlexTime_Ptr(t *testing.T) {
	var missing *FlexTime
	assert.Nil(t, missing.Ptr())

	ft := &FlexTime{Time: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	p := ft.Ptr()
	require.NotNil(t, p)
	assert.True(t, ft.Time.Equal(*p))
}

func TestNullableTime(t *testing.T) {
	type patch struct {
		StartedAt   NullableTime `json:"startedAt"`
		CompletedAt NullableTime `json:"completedAt"`
	}

	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"startedAt":null}`), &p))

	started := p.StartedAt.Optional()
	assert.True(t, started.Set)
	assert.Nil(t, started.Apply(&time.Time{}), "null clears the date")

	completed := p.CompletedAt.Optional()
	assert.False(t, completed.Set, "absent key leaves the date alone")
	existing := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, &existing, completed.Apply(&existing))

	require.NoError(t, json.Unmarshal([]byte(`{"completedAt":"2024-02-01"}`), &p))
	value := p.CompletedAt.Optional().Apply(nil)
	require.NotNil(t, value)
	assert.True(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Equal(*value))
}

func TestTimeSchemasAcceptStringsAndNumbers(t *testing.T) {
	registry := huma.NewMapRegistry("#/components/schemas/", huma.DefaultSchemaNamer)
	flex := FlexTime{}.Schema(registry)
	nullable := NullableTime{}.Schema(registry)

	valid := func(s *huma.Schema, v any) bool {
		res := &huma.ValidateResult{}
		huma.Validate(registry, s, huma.NewPathBuffer([]byte{}, 0), huma.ModeWriteToServer, v, res)
		return len(res.Errors) == 0
	}

	assert.True(t, valid(flex, "2025-01-15"))
	assert.True(t, valid(flex, float64(1736937000000)))
	assert.False(t, valid(flex, true))
	assert.False(t, valid(flex, nil))

	assert.True(t, valid(nullable, float64(1736937000000)))
	assert.True(t, valid(nullable, nil))
	assert.False(t, valid(nullable, map[string]any{}))
}
