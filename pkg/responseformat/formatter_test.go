package responseformat

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type doc struct {
	ChartID    string    `json:"chartId"`
	WindowDays int       `json:"windowDays"`
	Limits     []float64 `json:"limits"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
		wantErr  bool
	}{
		{"", JSON, false},
		{"json", JSON, false},
		{"msgpack", MsgPack, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteUsesJSONFieldNames(t *testing.T) {
	in := doc{ChartID: "main", WindowDays: 90, Limits: []float64{0, 0.45}}
	f := NewFormatter()

	var jsonBuf bytes.Buffer
	if err := f.Write(&jsonBuf, JSON, in); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if fromJSON["chartId"] != "main" {
		t.Errorf("unexpected JSON document %v", fromJSON)
	}

	var packBuf bytes.Buffer
	if err := f.Write(&packBuf, MsgPack, in); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	var fromPack map[string]any
	if err := msgpack.Unmarshal(packBuf.Bytes(), &fromPack); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if fromPack["chartId"] != "main" {
		t.Errorf("msgpack should use json tags, got %v", fromPack)
	}
	if _, ok := fromPack["ChartID"]; ok {
		t.Error("msgpack used the Go field name")
	}
}

func TestFormatMetadata(t *testing.T) {
	if MsgPack.ContentType() != "application/x-msgpack" || JSON.ContentType() != "application/json" {
		t.Error("unexpected content types")
	}
	if MsgPack.Extension() != ".msgpack" || JSON.Extension() != ".json" {
		t.Error("unexpected extensions")
	}
}
