package thumbnailer

import (
	"errors"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    Size
		wantErr bool
	}{
		{"icon", SizeIcon, false},
		{"TINY", SizeIcon, false},
		{"small", SizeSmall, false},
		{"Medium", SizeMedium, false},
		{"large", SizeLarge, false},
		{"larger", SizeLarger, false},
		{"x-large", SizeLarger, false},
		{" large ", SizeLarge, false},
		{"300x200", CustomSize(300, 200), false},
		{"300X200", CustomSize(300, 200), false},
		{"0x200", Size{}, true},
		{"300x-1", Size{}, true},
		{"300", Size{}, true},
		{"huge", Size{}, true},
		{"", Size{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSize) {
					t.Fatalf("ParseSize(%q) error = %v, want ErrInvalidSize", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPresetDimensions(t *testing.T) {
	want := map[string]int{"icon": 64, "small": 128, "medium": 256, "large": 512, "larger": 1024}

	for _, p := range Presets {
		edge, ok := want[p.String()]
		if !ok {
			t.Errorf("unexpected preset %q", p)
			continue
		}
		if p.Width != edge || p.Height != edge {
			t.Errorf("%s = %dx%d, want %dx%d", p, p.Width, p.Height, edge, edge)
		}
	}
	if len(Presets) != len(want) {
		t.Errorf("got %d presets, want %d", len(Presets), len(want))
	}
}

func TestSizeString(t *testing.T) {
	if got := CustomSize(640, 480).String(); got != "640x480" {
		t.Errorf("CustomSize(640, 480).String() = %q", got)
	}
	if got := SizeMedium.String(); got != "medium" {
		t.Errorf("SizeMedium.String() = %q", got)
	}
}

func TestSizeValid(t *testing.T) {
	tests := []struct {
		size Size
		want bool
	}{
		{CustomSize(1, 1), true},
		{SizeLarger, true},
		{CustomSize(0, 10), false},
		{CustomSize(10, 0), false},
		{CustomSize(-5, 10), false},
		{Size{}, false},
	}
	for _, tt := range tests {
		if got := tt.size.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.size, got, tt.want)
		}
	}
}
