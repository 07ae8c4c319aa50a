package gui

import (
	"context"
	"fmt"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sparks/internal/config"
	"github.com/san-kum/sparks/internal/input"
	"github.com/san-kum/sparks/internal/loop"
	"github.com/san-kum/sparks/internal/metrics"
	"github.com/san-kum/sparks/internal/particle"
	"github.com/san-kum/sparks/internal/render"
)

var (
	ColText    = rl.NewColor(220, 220, 220, 255)
	ColTextDim = rl.NewColor(110, 110, 110, 255)
	ColWarn    = rl.NewColor(255, 120, 80, 255)
)

// App is a raylib window acting as the loop's display. Frame callbacks run
// between BeginDrawing and EndDrawing, so EndDrawing's buffer swap is the
// display-sync point.
type App struct {
	Cfg      *config.Config
	Store    *particle.Store
	Renderer *render.Renderer
	Loop     *loop.Loop
	Stats    *metrics.Population
	Pointer  *input.Tracker
	ShowHUD  bool

	pending func()
}

func initWindow(w config.WindowConfig) {
	var flags uint32
	if w.VSync {
		flags |= rl.FlagVsyncHint
	}
	if w.Resizable {
		flags |= rl.FlagWindowResizable
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	rl.SetTargetFPS(int32(w.FPS))
	rl.SetExitKey(0)
}

// NewApp wires the simulation to the current window. It must be called after
// the window exists, since renderer setup needs the GL context.
func NewApp(cfg *config.Config) *App {
	bg := cfg.Window.Background
	dev := render.NewGLDevice(bg[0], bg[1], bg[2])
	renderer := render.New(dev)
	// A failed setup is logged and leaves the window clearing frames only.
	_ = renderer.Setup()

	app := &App{
		Cfg:      cfg,
		Store:    particle.New(cfg.Capacity, rand.New(rand.NewSource(cfg.Seed))),
		Renderer: renderer,
		Stats:    metrics.NewPopulation(cfg.Terminal.History),
		Pointer:  input.NewTracker(),
		ShowHUD:  cfg.Window.HUD,
	}
	app.Loop = loop.New(app.Store, renderer, app, cfg.SpawnPolicy())
	app.Loop.AddObserver(app.Stats)
	return app
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	initWindow(cfg.Window)
	defer rl.CloseWindow()

	app := NewApp(cfg)
	defer app.Renderer.Close()

	app.Loop.Start()
	app.RunLoop(ctx)
	return nil
}

func (a *App) RequestFrame(fn func()) { a.pending = fn }

func (a *App) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

func (a *App) Input() input.Snapshot { return a.Pointer.Snapshot() }

func (a *App) RunLoop(ctx context.Context) {
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update polls keys and the pointer. It returns false when the user quits.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Store.Reset()
		a.Stats.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}

	pos := rl.GetMousePosition()
	a.Pointer.Set(input.Snapshot{
		Down: rl.IsMouseButtonDown(rl.MouseButtonLeft),
		X:    float64(pos.X),
		Y:    float64(pos.Y),
	})
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()

	if fn := a.pending; fn != nil {
		a.pending = nil
		fn()
	}
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	h := int32(rl.GetScreenHeight())

	rl.DrawText("sparks", 20, 20, 24, ColText)
	rl.DrawText(fmt.Sprintf("%d particles", a.Store.Len()), 20, 50, 16, ColText)
	rl.DrawText(fmt.Sprintf("peak %d / cap %d", a.Stats.Peak, a.Store.Cap()), 20, 70, 14, ColTextDim)
	if a.Stats.Dropped > 0 {
		rl.DrawText(fmt.Sprintf("dropped %d", a.Stats.Dropped), 20, 90, 14, ColWarn)
	}
	if !a.Renderer.Ready() {
		rl.DrawText("renderer unavailable, see log", 20, 110, 14, ColWarn)
	}

	rl.DrawText(fmt.Sprintf("%d FPS  %.2fms/tick", rl.GetFPS(), float64(a.Stats.MeanElapsed().Microseconds())/1000), 20, h-30, 14, ColTextDim)
	rl.DrawText("[LMB] SPAWN  [R] RESET  [H] HUD  [Q] QUIT", 300, h-30, 14, ColTextDim)
}
