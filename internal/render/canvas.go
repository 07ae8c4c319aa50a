package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Cell is one character of a CanvasDevice grid.
type Cell struct {
	Glyph   rune
	R, G, B float32
	Scale   float32
}

func (c Cell) Empty() bool { return c.Glyph == 0 }

// Hex returns the cell color as #rrggbb.
func (c Cell) Hex() string {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}.Clamped().Hex()
}

// CanvasDevice rasterizes instanced points into a Cols x Rows character
// grid, using the same pixel to NDC mapping as the vertex stage. Where
// points overlap the largest one wins.
type CanvasDevice struct {
	Cols, Rows int

	cells    []Cell
	buffers  [][]float32
	attrs    []Attribute
	uniforms map[string]float32
	compiled bool
	bound    bool

	// Draws counts instanced draw calls.
	Draws int
}

func NewCanvasDevice(cols, rows int) *CanvasDevice {
	d := &CanvasDevice{uniforms: make(map[string]float32)}
	d.Resize(cols, rows)
	return d
}

func (d *CanvasDevice) Resize(cols, rows int) {
	d.Cols, d.Rows = max(cols, 0), max(rows, 0)
	d.cells = make([]Cell, d.Cols*d.Rows)
}

func (d *CanvasDevice) Compile(vertexSrc, fragmentSrc string) error {
	if vertexSrc == "" || fragmentSrc == "" {
		return ErrCompile
	}
	d.compiled = true
	return nil
}

func (d *CanvasDevice) Layout(attrs []Attribute) error {
	if !d.compiled {
		return ErrNotReady
	}
	d.attrs = attrs
	d.buffers = make([][]float32, len(attrs))
	return nil
}

// Viewport is a no-op; the grid size is set with Resize.
func (d *CanvasDevice) Viewport(width, height int) {}

func (d *CanvasDevice) Clear() {
	clear(d.cells)
}

func (d *CanvasDevice) Bind() { d.bound = true }

func (d *CanvasDevice) SetUniform(name string, v float32) {
	d.uniforms[name] = v
}

func (d *CanvasDevice) Upload(slot int, data []float32) {
	d.buffers[slot] = append(d.buffers[slot][:0], data...)
}

func (d *CanvasDevice) DrawPointsInstanced(count int) {
	if !d.bound || d.Cols == 0 || d.Rows == 0 {
		return
	}
	d.Draws++

	w, h := d.uniforms[UniformCanvasWidth], d.uniforms[UniformCanvasHeight]
	if w <= 0 || h <= 0 {
		return
	}
	pos, scale, col := d.buffers[SlotPosition], d.buffers[SlotScale], d.buffers[SlotColor]

	for i := 0; i < count; i++ {
		nx, ny := ToNDC(pos[i*2], pos[i*2+1], w, h)
		c := int((nx + 1) / 2 * float32(d.Cols))
		r := int((1 - ny) / 2 * float32(d.Rows))
		if c < 0 || c >= d.Cols || r < 0 || r >= d.Rows {
			continue
		}

		cell := &d.cells[r*d.Cols+c]
		s := scale[i]
		if !cell.Empty() && cell.Scale >= s {
			continue
		}
		*cell = Cell{
			Glyph: glyphFor(s),
			R:     col[i*3],
			G:     col[i*3+1],
			B:     col[i*3+2],
			Scale: s,
		}
	}
}

func glyphFor(scale float32) rune {
	switch {
	case scale >= 10:
		return '●'
	case scale >= 5:
		return '•'
	default:
		return '·'
	}
}

func (d *CanvasDevice) Unbind() { d.bound = false }

func (d *CanvasDevice) Release() {
	d.buffers = nil
	d.compiled = false
}

// Cell returns the cell at column c, row r.
func (d *CanvasDevice) Cell(c, r int) Cell {
	return d.cells[r*d.Cols+c]
}

// Filled counts non-empty cells.
func (d *CanvasDevice) Filled() int {
	n := 0
	for _, c := range d.cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}
