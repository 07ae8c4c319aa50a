// Package render draws the particle population with a single instanced
// point draw per frame.
//
// The graphics API is reached through [Device]:
//
//   - [GLDevice]: OpenGL 3.3+ core via go-gl
//   - [CanvasDevice]: CPU rasterizer into a character grid, for terminals
//     and headless runs
//
// # Example
//
//	r := render.New(render.NewGLDevice(0, 0, 0))
//	r.Setup()
//	r.Render(store, width, height)
package render
