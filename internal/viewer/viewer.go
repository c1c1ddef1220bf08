// Package viewer implements the interactive belt viewer main loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/config"
	"github.com/Faultbox/beltline/internal/engine/camera"
	"github.com/Faultbox/beltline/internal/engine/debug"
	"github.com/Faultbox/beltline/internal/engine/input"
	"github.com/Faultbox/beltline/internal/engine/lighting"
	"github.com/Faultbox/beltline/internal/engine/picking"
	"github.com/Faultbox/beltline/internal/engine/renderer"
	"github.com/Faultbox/beltline/internal/engine/window"
	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/internal/viewer/editor"
	"github.com/Faultbox/beltline/pkg/math"
)

var keyActions = map[sdl.Scancode]editor.Action{
	sdl.SCANCODE_LEFT:     editor.ActionMoveLeft,
	sdl.SCANCODE_RIGHT:    editor.ActionMoveRight,
	sdl.SCANCODE_UP:       editor.ActionMoveForward,
	sdl.SCANCODE_DOWN:     editor.ActionMoveBack,
	sdl.SCANCODE_PAGEUP:   editor.ActionMoveUp,
	sdl.SCANCODE_PAGEDOWN: editor.ActionMoveDown,
	sdl.SCANCODE_TAB:      editor.ActionNextAnchor,
	sdl.SCANCODE_SPACE:    editor.ActionToggleActive,
	sdl.SCANCODE_R:        editor.ActionRebuild,
	sdl.SCANCODE_L:        editor.ActionToggleTopology,
	sdl.SCANCODE_M:        editor.ActionCycleMode,
}

// Toggles fire once per press; moves follow key repeat.
var ignoreRepeat = map[editor.Action]bool{
	editor.ActionToggleActive:   true,
	editor.ActionRebuild:        true,
	editor.ActionToggleTopology: true,
	editor.ActionCycleMode:      true,
}

// App is the viewer instance.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	capture  *debug.Capture
	log      *zap.Logger

	ctrl   *belt.Controller
	editor *editor.Editor

	orbiting     bool
	panning      bool
	lastX, lastY int
	title        string
}

// New opens the window and creates the renderer. Attach a controller before
// calling Run.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("viewer")
	log.Info("initializing viewer",
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
	)

	a := &App{
		cfg:     cfg,
		input:   input.New(),
		camera:  camera.NewOrbitCamera(),
		capture: debug.NewCapture("captures", "beltline"),
		log:     log,
	}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      "beltline",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    cfg.Viewer.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:    w,
		Height:   h,
		ShowPath: cfg.Viewer.ShowPath,
		Sun:      lighting.DefaultSun(),
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return a, nil
}

// Sink returns the renderer for use as the controller's display sink.
func (a *App) Sink() belt.Sink {
	return a.renderer
}

// Attach sets the controller to drive and frames its current mesh.
func (a *App) Attach(ctrl *belt.Controller) {
	a.ctrl = ctrl
	a.editor = editor.New(ctrl, a.cfg.Viewer.MoveStep)
	a.fitCamera()
}

// Run starts the main loop. It returns when the window closes, Esc is
// pressed or ctx is cancelled. Configs received on reloads are applied
// between frames.
func (a *App) Run(ctx context.Context, reloads <-chan *config.Config) error {
	if a.ctrl == nil {
		return fmt.Errorf("viewer: no controller attached")
	}
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting viewer loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		select {
		case <-ctx.Done():
			a.running = false
			continue
		case cfg := <-reloads:
			a.apply(cfg)
		default:
		}

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			if err := a.handle(event); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
		}

		// 2. Update belt
		a.ctrl.Tick(dt)
		a.updateTitle()

		// 3. Render
		a.render()

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handle(event input.Event) error {
	switch event.Type {
	case input.EventWindowResize:
		// event size is in screen coordinates; the viewport wants pixels
		a.renderer.Resize(a.window.DrawableSize())

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			a.running = false
		case sdl.SCANCODE_P:
			if event.Repeat {
				return nil
			}
			a.cfg.Viewer.ShowPath = !a.cfg.Viewer.ShowPath
			a.renderer.SetShowPath(a.cfg.Viewer.ShowPath)
		case sdl.SCANCODE_F:
			a.fitCamera()
		case sdl.SCANCODE_F12:
			a.screenshot()
		case sdl.SCANCODE_E:
			a.exportMesh()
		default:
			action, ok := keyActions[event.Key]
			if !ok || (event.Repeat && ignoreRepeat[action]) {
				return nil
			}
			if action == editor.ActionNextAnchor && event.Shift {
				action = editor.ActionPrevAnchor
			}
			return a.editor.Apply(action)
		}

	case input.EventMouseDown:
		a.lastX, a.lastY = event.MouseX, event.MouseY
		switch {
		case event.Button == sdl.BUTTON_MIDDLE:
			a.panning = true
		case event.Button == sdl.BUTTON_LEFT && a.editor.Pick(a.ray(event.MouseX, event.MouseY)):
		default:
			a.orbiting = true
		}

	case input.EventMouseUp:
		a.editor.EndDrag()
		a.orbiting = a.input.ButtonHeld(sdl.BUTTON_LEFT) || a.input.ButtonHeld(sdl.BUTTON_RIGHT)
		a.panning = a.input.ButtonHeld(sdl.BUTTON_MIDDLE)

	case input.EventMouseMove:
		if a.editor.Dragging() {
			a.editor.Drag(a.ray(event.MouseX, event.MouseY))
		} else {
			dx, dy := float32(event.MouseX-a.lastX), float32(event.MouseY-a.lastY)
			if a.panning {
				a.camera.HandlePan(dx, dy)
			} else if a.orbiting {
				a.camera.HandleDrag(dx, dy)
			}
		}
		a.lastX, a.lastY = event.MouseX, event.MouseY

	case input.EventMouseWheel:
		a.camera.HandleZoom(event.Wheel)
	}
	return nil
}

func (a *App) ray(x, y int) picking.Ray {
	w, h := a.window.Size()
	inv := a.camera.ViewProjection(a.renderer.Aspect()).Inverse()
	return picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
}

func (a *App) render() {
	a.renderer.Begin()
	markers, selected := a.editor.Markers()
	a.renderer.Draw(a.camera.ViewProjection(a.renderer.Aspect()), a.camera.Position(), markers, selected)
	a.renderer.End()
}

func (a *App) apply(cfg *config.Config) {
	opts, err := cfg.ToControllerOptions()
	if err != nil {
		a.log.Warn("ignoring reloaded config", zap.Error(err))
		return
	}
	a.ctrl.Reconfigure(opts, cfg.ToThresholds())
	a.renderer.SetShowPath(cfg.Viewer.ShowPath)
	a.editor.SetStep(cfg.Viewer.MoveStep)
	a.cfg = cfg
}

func (a *App) fitCamera() {
	m := a.ctrl.Mesh()
	if m.Empty() {
		return
	}
	b := m.Bounds
	a.camera.FitToBounds(
		math.Vec3{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]},
		math.Vec3{X: b.Max[0], Y: b.Max[1], Z: b.Max[2]},
	)
}

func (a *App) screenshot() {
	pixels, w, h := a.window.ReadPixels()
	name, err := a.capture.SavePixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

func (a *App) exportMesh() {
	name, err := a.capture.SaveMesh(a.ctrl.Mesh())
	if err != nil {
		a.log.Error("mesh export failed", zap.Error(err))
		return
	}
	a.log.Info("mesh exported", zap.String("file", name))
}

func (a *App) updateTitle() {
	opts := a.ctrl.Options().Path
	v := a.ctrl.Verdict()
	title := fmt.Sprintf("beltline | %s %s | %s", opts.Mode, opts.Topology, v.State)
	if sel := a.editor.SelectedAnchor(); sel != nil {
		title += " | " + sel.Name
	}
	if title != a.title {
		a.window.SetTitle(title)
		a.title = title
	}
}
