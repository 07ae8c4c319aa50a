package render

// Attribute describes one per-instance vertex attribute bound to its own
// buffer.
type Attribute struct {
	Name     string
	Location uint32
	Size     int32
	Divisor  uint32
}

// Slots of the instance attributes, in buffer order.
const (
	SlotPosition = iota
	SlotScale
	SlotColor
)

// InstanceLayout is the vertex layout of a particle instance.
var InstanceLayout = []Attribute{
	SlotPosition: {Name: "vPosition", Location: 0, Size: 2, Divisor: 1},
	SlotScale:    {Name: "vScale", Location: 1, Size: 1, Divisor: 1},
	SlotColor:    {Name: "vColor", Location: 2, Size: 3, Divisor: 1},
}

// Device is the subset of a graphics API needed to draw instanced points.
type Device interface {
	Compile(vertexSrc, fragmentSrc string) error
	Layout(attrs []Attribute) error
	Viewport(width, height int)
	Clear()
	Bind()
	SetUniform(name string, v float32)
	// Upload replaces the whole contents of the buffer in slot.
	Upload(slot int, data []float32)
	DrawPointsInstanced(count int)
	Unbind()
	Release()
}
