package render

const (
	UniformCanvasWidth  = "uCanvasWidth"
	UniformCanvasHeight = "uCanvasHeight"
)

const vertexShader = `#version 330 core

layout(location = 0) in vec2 vPosition;
layout(location = 1) in float vScale;
layout(location = 2) in vec3 vColor;
out vec3 fColor;

uniform float uCanvasWidth;
uniform float uCanvasHeight;

void main()
{
	float x = (vPosition.x / uCanvasWidth - 0.5) * 2.0;
	float y = -(vPosition.y / uCanvasHeight - 0.5) * 2.0;
	gl_Position = vec4(x, y, 0.0, 1.0);
	gl_PointSize = vScale;
	fColor = vColor;
}
`

const fragmentShader = `#version 330 core

in vec3 fColor;
out vec4 finalColor;

void main()
{
	finalColor = vec4(fColor, 1.0);
}
`

// ToNDC maps a pixel-space position to normalized device coordinates the
// same way the vertex stage does. Pixel y grows downward, NDC y upward.
func ToNDC(x, y, width, height float32) (float32, float32) {
	return (x/width - 0.5) * 2, -(y/height - 0.5) * 2
}
