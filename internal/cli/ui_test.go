package cli

import (
	"bytes"
	"strings"
	"testing"

	kgio "github.com/matzehuels/keygrid/pkg/io"
	"github.com/matzehuels/keygrid/pkg/units"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{19, "19"},
		{19.05, "19.05"},
		{-1.5, "-1.5"},
		{1.0 / 3, "0.3333"},
		{-0.00001, "0"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPointTable(t *testing.T) {
	out := pointTable([]kgio.Point{
		{Name: "home"},
		{Name: "mirror_home", X: 38.5, R: -15, Mirrored: true},
	})
	for _, want := range []string{"Point", "home", "mirror_home", "38.5", "-15", iconMirrored} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestUnitTable(t *testing.T) {
	out := unitTable([]units.Entry{{Name: "U", Value: 19.05}, {Name: "pitch", Value: 20}})
	for _, want := range []string{"Unit", "Value", "U", "19.05", "pitch", "20"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	old := statusOut
	statusOut = &buf
	defer func() { statusOut = old }()

	printStats(resolveStats{points: 3, mirrored: 3, edges: 4, cached: true})
	out := buf.String()
	for _, want := range []string{"3 points", "3 mirrored", "4 references", iconCached} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "placed") {
		t.Errorf("zero counts should be omitted: %q", out)
	}
}
