package model

import "fmt"

// Coordinate is a validated square on the board. The zero value is a1.
type Coordinate struct {
	file int8 // 0..7 for a..h
	rank int8 // 0..7 for 1..8
}

// ParseCoordinate parses two-character algebraic notation such as "e4".
func ParseCoordinate(s string) (Coordinate, error) {
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q must be two characters", ErrMalformedNotation, s)
	}
	if s[1] < '0' || s[1] > '9' {
		return Coordinate{}, fmt.Errorf("%w: rank of %q must be a number", ErrMalformedNotation, s)
	}
	return NewCoordinate(s[0], int(s[1]-'0'))
}

// MustParseCoordinate is like ParseCoordinate but panics on error. Intended for
// fixed tables and tests.
func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCoordinate builds a coordinate from a file letter and a 1-based rank.
func NewCoordinate(file byte, rank int) (Coordinate, error) {
	if file < 'a' || file > 'h' {
		return Coordinate{}, fmt.Errorf("%w: file %q", ErrOutOfRange, file)
	}
	if rank < 1 || rank > 8 {
		return Coordinate{}, fmt.Errorf("%w: rank %d", ErrOutOfRange, rank)
	}
	return Coordinate{file: int8(file - 'a'), rank: int8(rank - 1)}, nil
}

// CoordinateFromIndex converts zero-based matrix indices (row is the rank, col
// the file) into a coordinate.
func CoordinateFromIndex(row, col int) (Coordinate, error) {
	if !inBounds(row, col) {
		return Coordinate{}, fmt.Errorf("%w: index (%d,%d)", ErrOutOfRange, row, col)
	}
	return Coordinate{file: int8(col), rank: int8(row)}, nil
}

// Index returns the zero-based matrix indices of c.
func (c Coordinate) Index() (row, col int) {
	return int(c.rank), int(c.file)
}

// Offset returns the coordinate reached by moving dRank ranks and dFile files.
// Moves that leave the board fail with ErrOutOfRange; they never wrap.
func (c Coordinate) Offset(dRank, dFile int) (Coordinate, error) {
	return CoordinateFromIndex(int(c.rank)+dRank, int(c.file)+dFile)
}

func (c Coordinate) offset(d direction) (Coordinate, bool) {
	row, col := int(c.rank)+d.dRank, int(c.file)+d.dFile
	if !inBounds(row, col) {
		return Coordinate{}, false
	}
	return Coordinate{file: int8(col), rank: int8(row)}, true
}

// Rank returns the 1-based rank.
func (c Coordinate) Rank() int { return int(c.rank) + 1 }

// File returns the file letter.
func (c Coordinate) File() byte { return byte(c.file) + 'a' }

func (c Coordinate) String() string {
	return fmt.Sprintf("%c%d", c.File(), c.Rank())
}

func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func inBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
