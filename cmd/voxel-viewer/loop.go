package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"voxel-engine/internal/config"
	"voxel-engine/internal/game"
	"voxel-engine/internal/graphics"
	"voxel-engine/internal/input"
	"voxel-engine/internal/march"
	"voxel-engine/internal/physics"
	"voxel-engine/internal/player"
	"voxel-engine/internal/profiling"
	"voxel-engine/internal/render"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// eyeHeight is how far above the ground the camera spawns.
const eyeHeight = 1.62

// viewer owns the window loop: input, camera, CPU frame, presentation.
type viewer struct {
	window    *glfw.Window
	marcher   *march.Marcher
	renderer  *render.Renderer
	presenter *graphics.FramePresenter
	camera    *player.Camera
	input     *input.InputManager
	limiter   *game.FPSLimiter

	frame  *image.RGBA
	paused bool
	stats  render.FrameStats
	target physics.RaycastResult

	// Timing
	frames           int
	lastFPS          int
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

func newViewer(window *glfw.Window, m *march.Marcher, workers int) (*viewer, error) {
	presenter, err := graphics.NewFramePresenter()
	if err != nil {
		return nil, err
	}

	cls := m.Classifier()
	top := cls.SurfaceHeight(0, 0) + 2
	spawn := physics.SpawnPoint(0.5, 0.5, top, 256, cls, eyeHeight)

	v := &viewer{
		window:           window,
		marcher:          m,
		renderer:         render.NewRenderer(m, render.NewPaletteShader(cls), workers),
		presenter:        presenter,
		camera:           player.NewCamera(spawn),
		input:            input.NewInputManager(),
		limiter:          game.NewFPSLimiter(),
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}

	v.input.Attach(window)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !v.paused {
			v.camera.HandleMouseMovement(xpos, ypos)
		}
	})

	logs.WithTag("x", spawn.X()).
		WithTag("y", spawn.Y()).
		WithTag("z", spawn.Z()).
		Info("spawned")
	return v, nil
}

func (v *viewer) Close() {
	v.renderer.Close()
	v.presenter.Delete()
}

// Run loops until the window closes or ctx ends.
func (v *viewer) Run(ctx context.Context) {
	for !v.window.ShouldClose() && ctx.Err() == nil {
		profiling.ResetFrame()

		now := time.Now()
		dt := now.Sub(v.lastTime).Seconds()
		v.lastTime = now

		v.handleActions()
		if !v.paused {
			v.camera.Update(dt, v.input)
		}

		if err := v.renderFrame(ctx); err != nil {
			if !errors.IsType(err, render.ErrTypeFrameCancelled) {
				logs.Warn(err)
			}
			break
		}

		func() {
			defer profiling.Track("glfw.SwapBuffers")()
			v.window.SwapBuffers()
		}()
		v.input.PostUpdate()
		func() {
			defer profiling.Track("glfw.PollEvents")()
			glfw.PollEvents()
		}()

		v.reportFPS(now)
		v.limiter.Wait(v.paused || v.window.GetAttrib(glfw.Focused) != glfw.True)
	}
}

func (v *viewer) handleActions() {
	if v.input.JustPressed(input.ActionReleaseCursor) {
		v.paused = !v.paused
		if v.paused {
			v.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		} else {
			v.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			v.camera.FirstMouse = true
		}
	}
	if v.input.JustPressed(input.ActionToggleHUD) {
		config.SetShowHUD(!config.GetShowHUD())
	}
	if v.input.JustPressed(input.ActionToggleProfiling) {
		logs.WithTag("top", profiling.TopN(5)).Info("frame profile")
	}
	if v.input.JustPressed(input.ActionFinerResolution) {
		config.SetUpscale(config.GetUpscale() - 1)
	}
	if v.input.JustPressed(input.ActionCoarserResolution) {
		config.SetUpscale(config.GetUpscale() + 1)
	}
	if v.input.JustPressed(input.ActionProbe) {
		v.probe()
	}
	if v.input.JustPressed(input.ActionScreenshot) {
		if err := v.screenshot(); err != nil {
			logs.Warn(err)
		}
	}
}

// renderFrame marches the view at the reduced resolution and presents it.
func (v *viewer) renderFrame(ctx context.Context) error {
	fbWidth, fbHeight := v.window.GetFramebufferSize()
	upscale := config.GetUpscale()
	width, height := max(fbWidth/upscale, 1), max(fbHeight/upscale, 1)

	if v.frame == nil || v.frame.Bounds().Dx() != width || v.frame.Bounds().Dy() != height {
		v.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}

	view := v.camera.View()
	stats, err := v.renderer.Render(ctx, view, v.frame)
	if err != nil {
		return err
	}
	v.stats = stats
	v.target = physics.Raycast(view.Position, view.Forward(),
		physics.MinReachDistance, physics.MaxReachDistance, v.marcher.Classifier())

	if config.GetShowHUD() {
		render.DrawLabel(v.frame, 2, 2, v.hudLines())
	}

	defer profiling.Track("graphics.Present")()
	v.presenter.Upload(v.frame)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	v.presenter.Draw()
	return nil
}

func (v *viewer) hudLines() []string {
	pos := v.camera.Position
	lines := []string{
		fmt.Sprintf("%d fps  %dx%d /%d", v.lastFPS, v.frame.Bounds().Dx(), v.frame.Bounds().Dy(), config.GetUpscale()),
		fmt.Sprintf("xyz %.1f %.1f %.1f", pos.X(), pos.Y(), pos.Z()),
		fmt.Sprintf("hits %d/%d  steps %.1f", v.stats.Hits, v.stats.Rays, v.stats.MeanSteps()),
		fmt.Sprintf("frame %s", v.stats.Duration.Round(100*time.Microsecond)),
	}
	if v.target.Hit {
		c := v.target.HitPosition
		m := v.marcher.Classifier().Classify(c)
		lines = append(lines, fmt.Sprintf("target %s %d %d %d", m, c[0], c[1], c[2]))
	}
	return lines
}

// probe marches the centre ray and logs what it found.
func (v *viewer) probe() {
	view := v.camera.View()
	ray := march.Ray{Origin: view.Position, Direction: view.Forward()}
	res := v.marcher.March(ray)

	entry := logs.WithTag("reason", res.Reason.String()).
		WithTag("steps", res.Steps)
	if res.Hit {
		entry = entry.WithTag("material", v.marcher.Classifier().Classify(res.Cell).String()).
			WithTag("distance", res.Distance).
			WithTag("cell", fmt.Sprint(res.Cell))
	}
	entry.Info("probe")
}

func (v *viewer) screenshot() error {
	if v.frame == nil {
		return nil
	}
	path := fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))

	f, err := os.Create(path)
	if err != nil {
		return errors.New("creating screenshot failed").WithTag("path", path).Wrap(err)
	}
	defer f.Close()

	if err := render.Encode(f, v.frame, render.FormatFromPath(path)); err != nil {
		return err
	}
	logs.WithTag("path", path).Info("screenshot saved")
	return nil
}

func (v *viewer) reportFPS(now time.Time) {
	v.frames++
	if now.Sub(v.lastFPSCheckTime) < time.Second {
		return
	}

	v.lastFPS = v.frames
	logs.WithTag("fps", v.frames).
		WithTag("mean_steps", v.stats.MeanSteps()).
		WithTag("render_ms", profiling.SumWithPrefix("render.").Milliseconds()).
		WithTag("present_ms", profiling.SumWithPrefix("graphics.").Milliseconds()).
		Info("frame rate")
	v.frames = 0
	v.lastFPSCheckTime = now
}
