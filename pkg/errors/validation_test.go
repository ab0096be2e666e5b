package errors

import (
	"strings"
	"testing"
)

func TestValidateShapeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "circle", false},
		{"valid with dash", "rounded-square", false},
		{"valid with underscore", "my_shape", false},
		{"valid with dot", "custom.star", false},
		{"valid with digits", "star5", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"space", "my shape", true},
		{"leading dash", "-circle", true},
		{"slash", "a/b", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShapeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShapeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidShape) {
				t.Errorf("ValidateShapeName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidShape)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "n1", false},
		{"valid with colon", "cam0:n1", false},
		{"valid unicode", "knoten-ü", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"space", "node 1", true},
		{"tab", "node\t1", true},
		{"quote", `node"1`, true},
		{"hash", "node#1", true},
		{"angle bracket", "<node>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/a.png", false},
		{"http", "http://example.com/a.png", false},
		{"file scheme", "file:///tmp/a.png", false},
		{"relative path", "images/a.png", false},
		{"absolute path", "/var/img/a.png", false},
		{"upper case scheme", "HTTPS://example.com/a.png", false},

		{"empty", "", true},
		{"javascript", "javascript://alert(1)", true},
		{"ftp", "ftp://example.com/a.png", true},
		{"null byte", "a\x00.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
