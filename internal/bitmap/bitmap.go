// Package bitmap provides the binary image abstraction consumed by the
// barcode detector: a bit-packed two-dimensional grid of black/white pixels.
package bitmap

import (
	"errors"
	"strings"
)

// BitMatrix is a 2D matrix of bits. x is the column, y is the row; the
// origin is at the top-left. A set bit represents a black pixel.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// New creates a BitMatrix of the given width and height with all bits unset.
func New(width, height int) (*BitMatrix, error) {
	if width < 1 || height < 1 {
		return nil, errors.New("bitmap: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint32, rowSize*height),
	}, nil
}

// Get reports whether the bit at (x, y) is set.
func (m *BitMatrix) Get(x, y int) bool {
	offset := y*m.rowSize + x/32
	return (m.data[offset]>>uint(x&0x1f))&1 != 0
}

// Set sets the bit at (x, y).
func (m *BitMatrix) Set(x, y int) {
	offset := y*m.rowSize + x/32
	m.data[offset] |= 1 << uint(x&0x1f)
}

// Unset clears the bit at (x, y).
func (m *BitMatrix) Unset(x, y int) {
	offset := y*m.rowSize + x/32
	m.data[offset] &^= 1 << uint(x&0x1f)
}

// Width returns the matrix width in pixels.
func (m *BitMatrix) Width() int { return m.width }

// Height returns the matrix height in pixels.
func (m *BitMatrix) Height() int { return m.height }

// SetRegion sets every bit in the rectangle [left, left+width) x [top, top+height).
func (m *BitMatrix) SetRegion(left, top, width, height int) error {
	if top < 0 || left < 0 {
		return errors.New("bitmap: region origin must be nonnegative")
	}
	if height < 1 || width < 1 {
		return errors.New("bitmap: region must be at least 1x1")
	}
	right := left + width
	bottom := top + height
	if bottom > m.height || right > m.width {
		return errors.New("bitmap: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		offset := y * m.rowSize
		for x := left; x < right; x++ {
			m.data[offset+x/32] |= 1 << uint(x&0x1f)
		}
	}
	return nil
}

// Rotate180 rotates the matrix in place by 180 degrees.
func (m *BitMatrix) Rotate180() {
	rotated := make([]uint32, len(m.data))
	out := &BitMatrix{width: m.width, height: m.height, rowSize: m.rowSize, data: rotated}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				out.Set(m.width-1-x, m.height-1-y)
			}
		}
	}
	m.data = rotated
}

// Clone returns a deep copy of the matrix.
func (m *BitMatrix) Clone() *BitMatrix {
	data := make([]uint32, len(m.data))
	copy(data, m.data)
	return &BitMatrix{width: m.width, height: m.height, rowSize: m.rowSize, data: data}
}

// Equals reports whether two matrices have identical size and contents.
func (m *BitMatrix) Equals(other *BitMatrix) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// ParseString builds a BitMatrix from a textual fixture where set represents
// a black pixel and unset a white one. Rows are separated by newlines and
// must all have the same length.
func ParseString(repr, set, unset string) (*BitMatrix, error) {
	lines := strings.Split(strings.Trim(repr, "\n"), "\n")
	if len(lines) == 0 {
		return nil, errors.New("bitmap: empty representation")
	}
	type cell struct{ x, y int }
	var on []cell
	width := -1
	for y, line := range lines {
		x := 0
		pos := 0
		for pos < len(line) {
			switch {
			case strings.HasPrefix(line[pos:], set):
				on = append(on, cell{x, y})
				pos += len(set)
			case strings.HasPrefix(line[pos:], unset):
				pos += len(unset)
			default:
				return nil, errors.New("bitmap: unrecognized character in representation")
			}
			x++
		}
		if width == -1 {
			width = x
		} else if x != width {
			return nil, errors.New("bitmap: row lengths do not match")
		}
	}
	m, err := New(width, len(lines))
	if err != nil {
		return nil, err
	}
	for _, c := range on {
		m.Set(c.x, c.y)
	}
	return m, nil
}

// String renders the matrix using "X" for set bits and "." for unset bits.
func (m *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow(m.height * (m.width + 1))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
