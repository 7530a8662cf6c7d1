package model

import (
	"errors"
	"testing"
)

func TestAlgebraicRoundTrip(t *testing.T) {
	for file := byte('a'); file <= 'h'; file++ {
		for rank := byte('1'); rank <= '8'; rank++ {
			s := string([]byte{file, rank})
			c, err := ParseCoordinate(s)
			if err != nil {
				t.Fatalf("parse %q: %v", s, err)
			}
			if got := c.String(); got != s {
				t.Fatalf("round trip %q: got %q", s, got)
			}
			row, col := c.Index()
			back, err := CoordinateFromIndex(row, col)
			if err != nil || back != c {
				t.Fatalf("index round trip %q: got %v, %v", s, back, err)
			}
		}
	}
}

func TestParseCoordinateErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrMalformedNotation},
		{"e", ErrMalformedNotation},
		{"e44", ErrMalformedNotation},
		{"ex", ErrMalformedNotation},
		{"i4", ErrOutOfRange},
		{"E4", ErrOutOfRange},
		{"e9", ErrOutOfRange},
		{"e0", ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseCoordinate(tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseCoordinate(%q) = %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}

func TestCoordinateOffset(t *testing.T) {
	d4 := MustParseCoordinate("d4")
	got, err := d4.Offset(1, 1)
	if err != nil || got != MustParseCoordinate("e5") {
		t.Fatalf("d4+(1,1) = %v, %v", got, err)
	}
	got, err = d4.Offset(-3, -3)
	if err != nil || got != MustParseCoordinate("a1") {
		t.Fatalf("d4+(-3,-3) = %v, %v", got, err)
	}
	if _, err := d4.Offset(-4, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("d4 off the bottom edge: %v", err)
	}
	if _, err := MustParseCoordinate("h4").Offset(0, 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("h4 must not wrap to the next rank: %v", err)
	}
	if _, err := CoordinateFromIndex(8, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("row 8: %v", err)
	}
}

func TestCoordinateText(t *testing.T) {
	var c Coordinate
	if err := c.UnmarshalText([]byte("g7")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.File() != 'g' || c.Rank() != 7 {
		t.Fatalf("got file %c rank %d", c.File(), c.Rank())
	}
	if err := c.UnmarshalText([]byte("z9")); err == nil {
		t.Fatalf("expected error for z9")
	}
}
