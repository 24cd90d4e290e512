package render

import (
	"context"
	"image"
	"sync/atomic"
	"time"

	"voxel-engine/internal/march"
	"voxel-engine/internal/profiling"

	"github.com/alitto/pond/v2"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// ErrTypeFrameCancelled is returned when the context ends before every row
// of a frame was marched.
const ErrTypeFrameCancelled = "frame_cancelled"

// FrameStats summarizes one rendered frame.
type FrameStats struct {
	Rays     int
	Hits     int
	Steps    int64
	Duration time.Duration
}

// MeanSteps returns the average number of traversal iterations per ray.
func (s FrameStats) MeanSteps() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Steps) / float64(s.Rays)
}

// Renderer marches one ray per pixel. Rows are dispatched onto a bounded
// worker pool; rays share nothing but the marcher's immutable configuration.
type Renderer struct {
	marcher *march.Marcher
	shader  Shader
	pool    pond.Pool
}

// NewRenderer creates a renderer backed by a pool of the given size.
func NewRenderer(m *march.Marcher, shader Shader, workers int) *Renderer {
	return &Renderer{
		marcher: m,
		shader:  shader,
		pool:    pond.NewPool(max(workers, 1)),
	}
}

// Close waits for running rows and stops the worker pool.
func (r *Renderer) Close() {
	r.pool.StopAndWait()
}

// Render fills img with the view from cam. Rows not yet started when ctx
// ends are left untouched and an ErrTypeFrameCancelled error is returned.
func (r *Renderer) Render(ctx context.Context, cam Camera, img *image.RGBA) (FrameStats, error) {
	defer profiling.Track("render.Frame")()
	start := time.Now()

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var hits, steps, rays atomic.Int64
	group := r.pool.NewGroup()

	for py := 0; py < height; py++ {
		group.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			h, s := r.renderRow(cam, img, py, width, height)
			hits.Add(int64(h))
			steps.Add(s)
			rays.Add(int64(width))
		})
	}

	if err := group.Wait(); err != nil {
		return FrameStats{}, errors.New("rendering frame failed").Wrap(err)
	}

	stats := FrameStats{
		Rays:     int(rays.Load()),
		Hits:     int(hits.Load()),
		Steps:    steps.Load(),
		Duration: time.Since(start),
	}

	if err := ctx.Err(); err != nil {
		instrumentCancelledFrame()
		return stats, errors.New("frame cancelled").
			WithType(ErrTypeFrameCancelled).
			WithTag("rows_done", stats.Rays/max(width, 1)).
			Wrap(err)
	}

	instrumentFrame(stats.Duration)
	return stats, nil
}

func (r *Renderer) renderRow(cam Camera, img *image.RGBA, py, width, height int) (int, int64) {
	bounds := img.Bounds()
	var counts [3]int
	rowSteps := make([]int, 0, width)
	hits := 0
	total := int64(0)

	for px := 0; px < width; px++ {
		ray := cam.RayAt(px, py, width, height)
		res := r.marcher.March(ray)
		if res.Hit {
			hits++
		}
		counts[res.Reason]++
		rowSteps = append(rowSteps, res.Steps)
		total += int64(res.Steps)
		img.SetRGBA(bounds.Min.X+px, bounds.Min.Y+py, r.shader.Shade(ray, res))
	}

	instrumentRow(&counts, rowSteps)
	return hits, total
}
