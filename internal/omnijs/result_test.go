package omnijs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputEmpty(t *testing.T) {
	res := ParseOutput("")
	assert.True(t, res.IsNull())
	assert.Nil(t, res.Value())
}

func TestParseOutputJSONNull(t *testing.T) {
	res := ParseOutput("null")
	assert.True(t, res.IsNull())
}

func TestParseOutputObject(t *testing.T) {
	res := ParseOutput(`{"id":"abc123","name":"Buy milk"}`)

	obj, ok := res.Object()
	require.True(t, ok)
	assert.Equal(t, "abc123", obj["id"])

	_, isErr := res.ErrMessage()
	assert.False(t, isErr)
}

func TestParseOutputArray(t *testing.T) {
	res := ParseOutput(`[{"id":"a"},{"id":"b"}]`)

	list, ok := res.List()
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestParseOutputPlainText(t *testing.T) {
	// Scripts may intentionally return a bare string; that is not an error.
	res := ParseOutput("not json at all")
	assert.False(t, res.IsNull())
	assert.Equal(t, "not json at all", res.Text())
	assert.Nil(t, res.Value())
}

func TestErrMessage(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantMsg string
		wantOK  bool
	}{
		{
			name:    "error object",
			output:  `{"error":"Task not found"}`,
			wantMsg: "Task not found",
			wantOK:  true,
		},
		{
			name:   "success object",
			output: `{"success":true,"id":"x"}`,
			wantOK: false,
		},
		{
			name:   "array",
			output: `[]`,
			wantOK: false,
		},
		{
			name:   "empty error string is not an error",
			output: `{"error":""}`,
			wantOK: false,
		},
		{
			name:   "non-string error field",
			output: `{"error":42}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := ParseOutput(tt.output).ErrMessage()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestDecode(t *testing.T) {
	type receipt struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	res := ParseOutput(`{"id":"abc","name":"Buy milk","success":true}`)

	var r receipt
	require.NoError(t, res.Decode(&r))
	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, "Buy milk", r.Name)
}

func TestDecodeShapeMismatch(t *testing.T) {
	res := ParseOutput(`["a","b"]`)

	var obj struct {
		ID string `json:"id"`
	}
	assert.Error(t, res.Decode(&obj))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "empty result", ParseOutput("").Describe())
	assert.Equal(t, "object", ParseOutput(`{}`).Describe())
	assert.Equal(t, "array", ParseOutput(`[]`).Describe())
	assert.Contains(t, ParseOutput("raw text").Describe(), "plain text")
}
