package surface

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#000", color.NRGBA{0, 0, 0, 255}},
		{"#f00", color.NRGBA{255, 0, 0, 255}},
		{"#00ff7f", color.NRGBA{0, 255, 127, 255}},
		{"red", color.NRGBA{255, 0, 0, 255}},
		{"Yellow", color.NRGBA{255, 255, 0, 255}},
		{"rgb(1, 2, 3)", color.NRGBA{1, 2, 3, 255}},
		{"rgba(10,20,30,0.5)", color.NRGBA{10, 20, 30, 128}},
		{"transparent", color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "#12", "notacolour", "rgb(1,2)"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) error = nil, want error", in)
		}
	}
}

func TestFormatColor(t *testing.T) {
	tests := []struct {
		in   color.Color
		want string
	}{
		{color.NRGBA{255, 0, 0, 255}, "#ff0000"},
		{color.Black, "#000000"},
		{color.NRGBA{10, 20, 30, 0}, "rgba(10,20,30,0)"},
		{color.NRGBA{10, 20, 30, 128}, "rgba(10,20,30,0.502)"},
	}
	for _, tt := range tests {
		if got := FormatColor(tt.in); got != tt.want {
			t.Errorf("FormatColor(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
