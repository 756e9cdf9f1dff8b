package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestEncodeOffset(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  string
	}{
		{name: "zero offset", value: 0, want: "offset:0"},
		{name: "page offset", value: 10, want: "offset:10"},
		{name: "large offset", value: 2500, want: "offset:2500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeOffset(tt.value)
			decoded, err := base64.StdEncoding.DecodeString(got)
			if err != nil {
				t.Fatalf("EncodeOffset() produced invalid base64: %v", err)
			}
			if string(decoded) != tt.want {
				t.Errorf("EncodeOffset() got = %v, want %v", string(decoded), tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "plain name", filename: "report.pdf", want: "report.pdf"},
		{name: "path traversal", filename: "../../etc/passwd", want: "_.._etc_passwd"},
		{name: "windows separators", filename: "logs\\run.txt", want: "logs_run.txt"},
		{name: "hidden file", filename: ".hidden", want: "hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.filename); got != tt.want {
				t.Errorf("SanitizeFilename() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunk(t *testing.T) {
	type rng struct{ start, end int }
	tests := []struct {
		name      string
		chunkSize int
		total     int
		want      []rng
	}{
		{name: "uneven final chunk", chunkSize: 3, total: 7, want: []rng{{0, 3}, {3, 6}, {6, 7}}},
		{name: "single chunk", chunkSize: 10, total: 4, want: []rng{{0, 4}}},
		{name: "empty input", chunkSize: 3, total: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []rng
			err := Chunk(tt.chunkSize, tt.total, func(start, end int) error {
				got = append(got, rng{start, end})
				return nil
			})
			if err != nil {
				t.Fatalf("Chunk() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chunk() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunkPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	calls := 0
	err := Chunk(2, 10, func(start, end int) error {
		calls++
		if start == 2 {
			return wantErr
		}
		return nil
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Chunk() error = %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Errorf("Chunk() calls = %v, want 2", calls)
	}
}

func TestMinMax(t *testing.T) {
	tests := []struct {
		name    string
		x       int
		y       int
		wantMin int
		wantMax int
	}{
		{name: "ordered", x: 1, y: 2, wantMin: 1, wantMax: 2},
		{name: "reversed", x: 9, y: 4, wantMin: 4, wantMax: 9},
		{name: "equal", x: 5, y: 5, wantMin: 5, wantMax: 5},
		{name: "negative", x: -3, y: 0, wantMin: -3, wantMax: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Min(tt.x, tt.y); got != tt.wantMin {
				t.Errorf("Min() got = %v, want %v", got, tt.wantMin)
			}
			if got := Max(tt.x, tt.y); got != tt.wantMax {
				t.Errorf("Max() got = %v, want %v", got, tt.wantMax)
			}
		})
	}
}

func TestGenerateUUID(t *testing.T) {
	got := GenerateUUID()
	if len(got) != 32 {
		t.Errorf("GenerateUUID() length = %v, want 32", len(got))
	}
	if got == GenerateUUID() {
		t.Errorf("GenerateUUID() returned the same value twice")
	}
}

func TestRandString(t *testing.T) {
	for _, n := range []int{1, 8, 64} {
		t.Run(fmt.Sprintf("length %d", n), func(t *testing.T) {
			if got := RandString(n); len(got) != n {
				t.Errorf("RandString() length = %v, want %v", len(got), n)
			}
		})
	}
}
