package main

import (
	"context"
	"net/http"
	"os"
	"reflect"
	"runtime"
	"syscall"

	"voxel-engine/internal/config"
	"voxel-engine/internal/march"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var _ = reflect.TypeOf(options{})

type options struct {
	Config      string `cli:""        env:"VOXEL_CONFIG"       help:"World configuration file (TOML). Defaults are used when empty."`
	Width       int    `cli:""        env:"VOXEL_WIDTH"        help:"Window width."`
	Height      int    `cli:""        env:"VOXEL_HEIGHT"       help:"Window height."`
	Upscale     int    `cli:""        env:"VOXEL_UPSCALE"      help:"Screen pixels per marched pixel along each axis."`
	FPSLimit    int    `cli:""        env:"VOXEL_FPS_LIMIT"    help:"Frame cap, 0 for unlimited."`
	Workers     int    `cli:""        env:"VOXEL_WORKERS"      help:"Number of marching workers."`
	MetricsAddr string `cli:""        env:"VOXEL_METRICS_ADDR" help:"Address serving prometheus metrics. Disabled when empty."`
	LogLevel    string `cli:""        env:"VOXEL_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	Debug       bool   `cli:""        env:"VOXEL_DEBUG"        help:"Shortcut for the debug log level."`
	Help        bool   `cli:""        env:"-"                  help:"Show help."`
}

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	opts := options{
		Width:    900,
		Height:   600,
		Upscale:  config.GetUpscale(),
		FPSLimit: config.GetFPSLimit(),
		Workers:  runtime.NumCPU(),
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Opens a window flying over the ray-marched voxel world.").
		Options(&opts)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(opts.LogLevel))
	if opts.Debug {
		logs.SetLevel(logs.ParseLevel("debug"))
	}
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	worldConf, err := config.Load(opts.Config)
	if err != nil {
		logs.Fatal(err)
	}
	marcher, err := march.New(worldConf)
	if err != nil {
		logs.Fatal(err)
	}
	config.SetUpscale(opts.Upscale)
	config.SetFPSLimit(opts.FPSLimit)

	logs.WithTag("config", worldConf.Hash()).
		WithTag("max_lod", worldConf.MaxLOD).
		WithTag("workers", opts.Workers).
		Info("world loaded")

	if opts.MetricsAddr != "" {
		serveMetrics(opts.MetricsAddr)
	}

	if err := glfw.Init(); err != nil {
		logs.Fatal(errors.New("initializing glfw failed").Wrap(err))
	}
	defer glfw.Terminate()

	window, err := setupWindow(opts.Width, opts.Height)
	if err != nil {
		logs.Fatal(errors.New("creating window failed").Wrap(err))
	}

	v, err := newViewer(window, marcher, opts.Workers)
	if err != nil {
		logs.Fatal(err)
	}
	defer v.Close()

	v.Run(ctx)
}

func serveMetrics(addr string) {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logs.WithTag("addr", addr).Info("serving metrics")
		if err := http.ListenAndServe(addr, &mux); err != nil {
			logs.Warn(errors.New("metrics server stopped").Wrap(err))
		}
	}()
}
