// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/engine/debug"
	"github.com/Faultbox/beltline/internal/engine/lighting"
	"github.com/Faultbox/beltline/internal/engine/shader"
	"github.com/Faultbox/beltline/internal/geometry"
	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/internal/validation"
	"github.com/Faultbox/beltline/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width    int
	Height   int
	ShowPath bool
	Sun      lighting.Sun
}

// Colors used for debug overlays.
var (
	pathColor     = [4]float32{0.2, 0.6, 1.0, 1.0}
	markerColor   = [4]float32{0.9, 0.9, 0.9, 1.0}
	selectedColor = [4]float32{1.0, 0.5, 0.1, 1.0}
	boundsColor   = [4]float32{0.4, 0.4, 0.45, 1.0}
)

// MarkerSize is the half-size of an anchor marker cross.
const MarkerSize = 0.25

// Renderer draws the belt ribbon and its overlays. It implements belt.Sink;
// geometry handed to Present is uploaded on the next Draw.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram *shader.Program
	lineProgram *shader.Program

	meshVAO, meshVBO, meshEBO uint32
	meshIndexCount            int32

	lineVAO, lineVBO uint32

	snap  belt.Snapshot
	hint  validation.Color
	dirty bool
	// uploaded is the generation currently in the GPU buffers.
	uploaded uint64
}

var _ belt.Sink = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
		hint:   validation.ColorValid,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	r.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	var err error
	r.meshProgram, err = shader.NewProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.lineProgram, err = shader.NewProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		r.meshProgram.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r.createBuffers()
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.meshVAO != 0 {
		gl.DeleteVertexArrays(1, &r.meshVAO)
		gl.DeleteBuffers(1, &r.meshVBO)
		gl.DeleteBuffers(1, &r.meshEBO)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	r.meshProgram.Delete()
	r.lineProgram.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetShowPath toggles the sampled path overlay.
func (r *Renderer) SetShowPath(show bool) {
	r.config.ShowPath = show
}

// Present stores the snapshot for drawing. The ribbon is re-uploaded only
// when the generation changed; a blocked rebuild just recolors it.
func (r *Renderer) Present(snap belt.Snapshot, hint validation.Color) {
	r.dirty = r.dirty || snap.Generation != r.uploaded
	r.snap = snap
	r.hint = hint
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders the ribbon, the path overlay and one marker per anchor.
// selected is the index into anchors to highlight, or -1.
func (r *Renderer) Draw(viewProj math.Mat4, eye math.Vec3, anchors []math.Vec3, selected int) {
	if r.dirty {
		r.upload(r.snap.Mesh)
		r.uploaded = r.snap.Generation
		r.dirty = false
	}

	if r.meshIndexCount > 0 {
		r.meshProgram.Use()
		r.meshProgram.SetMat4("uViewProj", viewProj)
		r.meshProgram.SetVec3("uEye", eye)
		r.meshProgram.SetVec3("uLightDir", r.config.Sun.Direction())
		r.meshProgram.SetVec4("uTint", r.hint.Array())
		gl.BindVertexArray(r.meshVAO)
		gl.DrawElements(gl.TRIANGLES, r.meshIndexCount, gl.UNSIGNED_INT, nil)
	}

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uViewProj", viewProj)

	if r.config.ShowPath && !r.snap.Path.Empty() {
		r.drawLines(debug.PathLineVertices(r.snap.Path.Points, r.snap.Path.Closed), pathColor)
	}
	if !r.snap.Mesh.Empty() {
		b := r.snap.Mesh.Bounds
		lo := math.Vec3{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]}
		hi := math.Vec3{X: b.Max[0], Y: b.Max[1], Z: b.Max[2]}
		r.drawLines(debug.BBoxWireframeVertices(lo, hi), boundsColor)
	}
	r.drawLines(debug.MarkerVertices(anchors, MarkerSize), markerColor)
	if selected >= 0 && selected < len(anchors) {
		r.drawLines(debug.MarkerVertices(anchors[selected:selected+1], MarkerSize*2), selectedColor)
	}

	gl.BindVertexArray(0)
}

// End finishes the current frame.
func (r *Renderer) End() {}

func (r *Renderer) createBuffers() {
	gl.GenVertexArrays(1, &r.meshVAO)
	gl.BindVertexArray(r.meshVAO)
	gl.GenBuffers(1, &r.meshVBO)
	gl.GenBuffers(1, &r.meshEBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.meshEBO)

	stride := int32(unsafe.Sizeof(geometry.Vertex{}))
	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, unsafe.Offsetof(geometry.Vertex{}.Position))
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, unsafe.Offsetof(geometry.Vertex{}.Normal))
	gl.EnableVertexAttribArray(1)
	// TexCoord (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, unsafe.Offsetof(geometry.Vertex{}.TexCoord))
	gl.EnableVertexAttribArray(2)

	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
}

func (r *Renderer) upload(m *geometry.Mesh) {
	if m.Empty() {
		r.meshIndexCount = 0
		return
	}
	gl.BindVertexArray(r.meshVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(unsafe.Sizeof(geometry.Vertex{})), gl.Ptr(m.Vertices), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.meshEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.DYNAMIC_DRAW)
	gl.BindVertexArray(0)
	r.meshIndexCount = int32(len(m.Indices))

	r.log.Debug("ribbon uploaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()),
	)
}

func (r *Renderer) drawLines(vertices []float32, color [4]float32) {
	if len(vertices) == 0 {
		return
	}
	r.lineProgram.SetVec4("uColor", color)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
}

const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uViewProj;

out vec3 vPos;
out vec3 vNormal;
out vec2 vTexCoord;

void main() {
	vPos = aPos;
	vNormal = aNormal;
	vTexCoord = aTexCoord;
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const meshFragmentShader = `
#version 410 core

in vec3 vPos;
in vec3 vNormal;
in vec2 vTexCoord;

uniform vec3 uEye;
uniform vec3 uLightDir;
uniform vec4 uTint;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	vec3 l = normalize(uLightDir);
	float diffuse = max(dot(n, l), 0.0);
	float rim = pow(1.0 - max(dot(n, normalize(uEye - vPos)), 0.0), 3.0);
	// Cross stripes along the belt make travel direction visible.
	float stripe = step(0.5, fract(vTexCoord.y * 40.0)) * 0.08;
	vec3 base = vec3(0.18) + stripe;
	vec3 color = mix(base, uTint.rgb, 0.35) * (0.35 + 0.65 * diffuse) + rim * uTint.rgb * 0.4;
	FragColor = vec4(color, uTint.a);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`
