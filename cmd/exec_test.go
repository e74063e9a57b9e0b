package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/taskbridge/omnifocus-mcp/internal/omnijs"
)

func TestReadScript(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr bool
	}{
		{
			name: "script from argument",
			args: []string{"inbox.length"},
			want: "inbox.length",
		},
		{
			name:  "script from stdin",
			args:  nil,
			stdin: "flattenedTags.map(t => t.name)",
			want:  "flattenedTags.map(t => t.name)",
		},
		{
			name:    "no script at all",
			args:    nil,
			stdin:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readScript(strings.NewReader(tt.stdin), tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("readScript() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("readScript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "json object is indented",
			output: `{"id":"abc","name":"Review"}`,
			want:   "{\n  \"id\": \"abc\",\n  \"name\": \"Review\"\n}\n",
		},
		{
			name:   "json number",
			output: "42",
			want:   "42\n",
		},
		{
			name:   "empty output prints null",
			output: "",
			want:   "null\n",
		},
		{
			name:   "bare text passes through",
			output: "not json at all",
			want:   "not json at all\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printResult(&buf, omnijs.ParseOutput(tt.output)); err != nil {
				t.Fatalf("printResult() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("printResult() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
