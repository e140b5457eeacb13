package extract

import (
	"errors"
	"testing"

	"ai-workflow-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{
			name: "fenced json block",
			raw:  "```json\n{\"a\":1}\n```",
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "bare fence",
			raw:  "```\n[1,2]\n```",
			want: []any{float64(1), float64(2)},
		},
		{
			name: "single line fence",
			raw:  "```json {\"ok\":true}```",
			want: map[string]any{"ok": true},
		},
		{
			name: "plain json with whitespace",
			raw:  "  {\"a\": \"b\"}\n",
			want: map[string]any{"a": "b"},
		},
		{
			name: "object embedded in prose",
			raw:  "Sure! Here is the result: {\"summary\": \"done {really}\"} Hope it helps.",
			want: map[string]any{"summary": "done {really}"},
		},
		{
			name: "array embedded in prose",
			raw:  "Questions:\n[{\"q\":\"x\"}]\nEnd.",
			want: []any{map[string]any{"q": "x"}},
		},
		{
			name: "skips unparseable bracket before real payload",
			raw:  "note [not json] then {\"a\":2}",
			want: map[string]any{"a": float64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	for _, raw := range []string{"no json here", "", "```json\n```", "{\"a\": 1"} {
		_, err := Extract(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, apperror.ErrMalformedResponse), raw)

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, raw, appErr.Raw)
	}
}

func TestExtractText(t *testing.T) {
	v, err := ExtractText("  What is your experience with Kubernetes?  ")
	require.NoError(t, err)
	assert.Equal(t, "What is your experience with Kubernetes?", v)

	v, err = ExtractText("Explain the [1, 2] list")
	require.NoError(t, err)
	assert.Equal(t, "Explain the [1, 2] list", v)

	v, err = ExtractText("```json\n{\"question\":\"Q1\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"question": "Q1"}, v)
}

func TestSchemaValidate(t *testing.T) {
	schema := Schema{
		Name:   "optimization",
		Kind:   Object,
		Fields: map[string]ValueKind{"optimizations": Array, "summary": Any},
	}

	v, err := Extract(`{"optimizations": [], "summary": "ok"}`)
	require.NoError(t, err)
	assert.NoError(t, schema.Validate(v, ""))

	v, err = Extract(`{"optimizations": []}`)
	require.NoError(t, err)
	err = schema.Validate(v, `{"optimizations": []}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidResponseShape))
	assert.False(t, errors.Is(err, apperror.ErrMalformedResponse))
	assert.Contains(t, err.Error(), `"summary"`)

	v, err = Extract(`{"optimizations": "nope", "summary": "ok"}`)
	require.NoError(t, err)
	assert.ErrorIs(t, schema.Validate(v, ""), apperror.ErrInvalidResponseShape)
}

func TestDecodeArrayOfObjects(t *testing.T) {
	type item struct {
		Section string `json:"section"`
		Content string `json:"content"`
	}
	schema := Schema{
		Name:     "feedback",
		Kind:     Array,
		MinItems: 1,
		Item:     &Schema{Kind: Object, Fields: map[string]ValueKind{"section": String, "content": String}},
	}

	var out []item
	err := Decode("```json\n[{\"section\":\"Strengths\",\"content\":\"clear\"}]\n```", schema, &out)
	require.NoError(t, err)
	assert.Equal(t, []item{{Section: "Strengths", Content: "clear"}}, out)

	err = Decode(`[{"section":"Strengths"}]`, schema, &out)
	assert.ErrorIs(t, err, apperror.ErrInvalidResponseShape)

	err = Decode(`[]`, schema, &out)
	assert.ErrorIs(t, err, apperror.ErrInvalidResponseShape)

	err = Decode(`{"section":"x","content":"y"}`, schema, &out)
	assert.ErrorIs(t, err, apperror.ErrInvalidResponseShape)
}

func TestDecodeTextField(t *testing.T) {
	s, err := DecodeTextField(`{"question": "Describe a rollout you led."}`, "question")
	require.NoError(t, err)
	assert.Equal(t, "Describe a rollout you led.", s)

	s, err = DecodeTextField("Describe a rollout you led.", "question")
	require.NoError(t, err)
	assert.Equal(t, "Describe a rollout you led.", s)

	_, err = DecodeTextField(`{"other": "x"}`, "question")
	assert.ErrorIs(t, err, apperror.ErrInvalidResponseShape)
}
