package render

import (
	"fmt"
	"log"

	"github.com/san-kum/sparks/internal/particle"
)

// Stager is the read side of the particle store.
type Stager interface {
	Stage() (positions, scales, colors []float32, n int)
}

var _ Stager = (*particle.Store)(nil)

// Renderer draws a store with one instanced point draw per frame.
type Renderer struct {
	dev   Device
	ready bool
	err   error

	// Instances is the instance count of the last draw.
	Instances int
}

// New returns a Renderer on dev. Call Setup before the first frame.
func New(dev Device) *Renderer {
	return &Renderer{dev: dev}
}

// Setup compiles the pipeline and establishes the instance layout. A
// failure is logged and leaves the renderer clearing frames without drawing.
func (r *Renderer) Setup() error {
	if err := r.dev.Compile(vertexShader, fragmentShader); err != nil {
		r.fail(err)
		return r.err
	}
	if err := r.dev.Layout(InstanceLayout); err != nil {
		r.fail(err)
		return r.err
	}
	r.ready = true
	r.err = nil
	return nil
}

func (r *Renderer) fail(err error) {
	r.ready = false
	r.err = fmt.Errorf("render setup: %w", err)
	log.Printf("render: %v", r.err)
}

func (r *Renderer) Ready() bool { return r.ready }

// Err returns the setup error, or ErrNotReady if Setup was never called.
func (r *Renderer) Err() error {
	if r.err == nil && !r.ready {
		return ErrNotReady
	}
	return r.err
}

// Render draws every staged particle of store onto a width x height surface.
func (r *Renderer) Render(store Stager, width, height int) {
	r.dev.Viewport(width, height)
	r.dev.Clear()
	if !r.ready {
		r.Instances = 0
		return
	}

	r.dev.Bind()
	r.dev.SetUniform(UniformCanvasWidth, float32(width))
	r.dev.SetUniform(UniformCanvasHeight, float32(height))

	positions, scales, colors, n := store.Stage()
	r.dev.Upload(SlotPosition, positions[:n*particle.PositionStride])
	r.dev.Upload(SlotScale, scales[:n*particle.ScaleStride])
	r.dev.Upload(SlotColor, colors[:n*particle.ColorStride])

	r.dev.DrawPointsInstanced(n)
	r.Instances = n

	r.dev.Unbind()
}

func (r *Renderer) Close() {
	r.dev.Release()
	r.ready = false
}
