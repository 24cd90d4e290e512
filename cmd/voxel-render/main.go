package main

import (
	"context"
	"image"
	"math"
	"os"
	"reflect"
	"runtime"
	"time"

	"voxel-engine/internal/config"
	"voxel-engine/internal/march"
	"voxel-engine/internal/physics"
	"voxel-engine/internal/profiling"
	"voxel-engine/internal/render"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"
	"github.com/xlab/closer"
)

var _ = reflect.TypeOf(options{})

type options struct {
	Config   string        `cli:""        env:"VOXEL_CONFIG"    help:"World configuration file (TOML). Defaults are used when empty."`
	Output   string        `cli:""        env:"VOXEL_OUTPUT"    help:"Output image; the extension picks png, bmp or tiff."`
	Width    int           `cli:""        env:"VOXEL_WIDTH"     help:"Image width."`
	Height   int           `cli:""        env:"VOXEL_HEIGHT"    help:"Image height."`
	X        float64       `cli:""        env:"-"               help:"Camera X."`
	Y        float64       `cli:""        env:"-"               help:"Camera Y. Placed above the ground when NaN."`
	Z        float64       `cli:""        env:"-"               help:"Camera Z."`
	Altitude float64       `cli:""        env:"-"               help:"Height above the ground when Y is not set."`
	Yaw      float64       `cli:""        env:"-"               help:"Camera yaw in degrees, -90 looks down -Z."`
	Pitch    float64       `cli:""        env:"-"               help:"Camera pitch in degrees."`
	FOV      float64       `cli:""        env:"-"               help:"Vertical field of view in degrees."`
	Workers  int           `cli:""        env:"VOXEL_WORKERS"   help:"Number of marching workers."`
	Timeout  time.Duration `cli:""        env:"VOXEL_TIMEOUT"   help:"Abort the render after this long, 0 for no limit."`
	LogLevel string        `cli:""        env:"VOXEL_LOG_LEVEL" help:"Log level (debug|info|warning|error)."`
	Debug    bool          `cli:""        env:"VOXEL_DEBUG"     help:"Shortcut for the debug log level."`
	Help     bool          `cli:""        env:"-"               help:"Show help."`
}

func main() {
	opts := options{
		Output:   "frame.png",
		Width:    640,
		Height:   360,
		Y:        math.NaN(),
		Altitude: 24,
		Yaw:      -90,
		Pitch:    -15,
		FOV:      60,
		Workers:  runtime.NumCPU(),
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)

	cli.Register().
		Help("Renders one frame of the voxel world to an image file.").
		Options(&opts)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(opts.LogLevel))
	if opts.Debug {
		logs.SetLevel(logs.ParseLevel("debug"))
	}
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	if opts.Width <= 0 || opts.Height <= 0 {
		logs.Fatal(errors.New("image size must be positive").
			WithTag("width", opts.Width).
			WithTag("height", opts.Height))
	}
	format := render.FormatFromPath(opts.Output)

	worldConf, err := config.Load(opts.Config)
	if err != nil {
		logs.Fatal(err)
	}
	marcher, err := march.New(worldConf)
	if err != nil {
		logs.Fatal(err)
	}

	renderer := render.NewRenderer(marcher, render.NewPaletteShader(marcher.Classifier()), opts.Workers)
	closer.Bind(renderer.Close)

	cam := camera(opts, marcher)
	if opts.Timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, opts.Timeout)
		closer.Bind(stop)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	stats, err := renderer.Render(ctx, cam, img)
	if err != nil {
		logs.Fatal(err)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		logs.Fatal(errors.New("creating output failed").WithTag("path", opts.Output).Wrap(err))
	}
	closer.Bind(func() { f.Close() })

	if err := render.Encode(f, img, format); err != nil {
		logs.Fatal(err)
	}

	logs.WithTag("path", opts.Output).
		WithTag("config", worldConf.Hash()).
		WithTag("rays", stats.Rays).
		WithTag("hits", stats.Hits).
		WithTag("mean_steps", stats.MeanSteps()).
		WithTag("duration", stats.Duration.String()).
		WithTag("profile", profiling.TopN(3)).
		Info("frame rendered")

	closer.Close()
}

// camera builds the view from the flags, dropping the camera onto the
// terrain when no height was given.
func camera(opts options, m *march.Marcher) render.Camera {
	pos := mgl64.Vec3{opts.X, opts.Y, opts.Z}
	if math.IsNaN(opts.Y) {
		cls := m.Classifier()
		top := cls.SurfaceHeight(int(math.Floor(opts.X)), int(math.Floor(opts.Z))) + 2
		pos = physics.SpawnPoint(opts.X, opts.Z, top, 256, cls, opts.Altitude)
	}

	cam := render.NewCamera(pos)
	cam.Yaw = mgl64.DegToRad(opts.Yaw)
	cam.Pitch = mgl64.Clamp(mgl64.DegToRad(opts.Pitch), -math.Pi/2+1e-3, math.Pi/2-1e-3)
	cam.FOV = mgl64.DegToRad(opts.FOV)
	return cam
}
