package main

import (
	"os"
	"reflect"

	"voxel-engine/internal/config"
	"voxel-engine/internal/march"
	"voxel-engine/internal/physics"
	"voxel-engine/internal/world"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"
)

var _ = reflect.TypeOf(options{})

type options struct {
	Config   string  `cli:""        env:"VOXEL_CONFIG"    help:"World configuration file (TOML). Defaults are used when empty."`
	X        float64 `cli:""        env:"-"               help:"Ray origin X."`
	Y        float64 `cli:""        env:"-"               help:"Ray origin Y."`
	Z        float64 `cli:""        env:"-"               help:"Ray origin Z."`
	DX       float64 `cli:""        env:"-"               help:"Ray direction X. Normalized before marching."`
	DY       float64 `cli:""        env:"-"               help:"Ray direction Y."`
	DZ       float64 `cli:""        env:"-"               help:"Ray direction Z."`
	Trace    bool    `cli:""        env:"-"               help:"Include every traversal step in the output."`
	Verify   bool    `cli:""        env:"-"               help:"Cross-check with an exact per-voxel ray cast."`
	Indent   bool    `cli:""        env:"-"               help:"Indent the output."`
	LogLevel string  `cli:""        env:"VOXEL_LOG_LEVEL" help:"Log level (debug|info|warning|error)."`
	Help     bool    `cli:""        env:"-"               help:"Show help."`
}

type stepReport struct {
	Index    int        `json:"index"`
	LOD      int        `json:"lod"`
	Cell     [3]int     `json:"cell"`
	Position [3]float64 `json:"position"`
	Traveled float64    `json:"traveled"`
	Min      float64    `json:"min"`
	Max      float64    `json:"max"`
	Verdict  string     `json:"verdict"`
}

type reference struct {
	Hit      bool    `json:"hit"`
	Cell     [3]int  `json:"cell,omitempty"`
	Normal   [3]int  `json:"normal,omitempty"`
	Distance float64 `json:"distance,omitempty"`
	Steps    int     `json:"steps"`
	Agrees   bool    `json:"agrees"`
}

type report struct {
	Config   string         `json:"config"`
	Origin   [3]float64     `json:"origin"`
	Dir      [3]float64     `json:"direction"`
	Hit      bool           `json:"hit"`
	Reason   string         `json:"reason"`
	Steps    int            `json:"steps"`
	Cell     *[3]int        `json:"cell,omitempty"`
	Position *[3]float64    `json:"position,omitempty"`
	Distance float64        `json:"distance,omitempty"`
	Material string         `json:"material,omitempty"`
	Density  *float64       `json:"density,omitempty"`
	Verdicts map[string]int `json:"verdicts"`
	Trace    []stepReport   `json:"trace,omitempty"`
	Exact    *reference     `json:"reference,omitempty"`
}

func main() {
	opts := options{
		Y:        200,
		DY:       -1,
		Verify:   true,
		LogLevel: logs.InfoLevel.String(),
	}

	cli.Register().
		Help("Marches a single ray and prints what it found as JSON.").
		Options(&opts)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(opts.LogLevel))
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

	dir := mgl64.Vec3{opts.DX, opts.DY, opts.DZ}
	if dir.Len() < 1e-12 {
		logs.Fatal(errors.New("ray direction must not be zero"))
	}
	ray := march.Ray{
		Origin:    mgl64.Vec3{opts.X, opts.Y, opts.Z},
		Direction: dir.Normalize(),
	}

	rep := probe(marcher, ray, opts.Trace)
	rep.Config = worldConf.Hash()
	if opts.Verify {
		rep.Exact = verify(marcher, ray, rep)
	}

	var out []byte
	if opts.Indent {
		out, err = json.MarshalIndent(rep, "", "  ")
	} else {
		out, err = json.Marshal(rep)
	}
	if err != nil {
		logs.Fatal(errors.New("encoding report failed").Wrap(err))
	}
	os.Stdout.Write(append(out, '\n'))
}

func probe(m *march.Marcher, ray march.Ray, trace bool) report {
	rep := report{
		Origin:   ray.Origin,
		Dir:      ray.Direction,
		Verdicts: make(map[string]int, 3),
	}

	res := m.MarchFunc(ray, func(s march.Step) {
		rep.Verdicts[s.Verdict.String()]++
		if !trace {
			return
		}
		rep.Trace = append(rep.Trace, stepReport{
			Index:    s.Index,
			LOD:      s.LOD,
			Cell:     s.Cell,
			Position: s.Position,
			Traveled: s.Traveled,
			Min:      s.Bounds.Min,
			Max:      s.Bounds.Max,
			Verdict:  s.Verdict.String(),
		})
	})

	rep.Hit = res.Hit
	rep.Reason = res.Reason.String()
	rep.Steps = res.Steps
	if res.Hit {
		cell := [3]int(res.Cell)
		pos := [3]float64(res.Position)
		density := m.Classifier().Density(res.Cell)
		rep.Cell = &cell
		rep.Position = &pos
		rep.Distance = res.Distance
		rep.Material = m.Classifier().Classify(res.Cell).String()
		rep.Density = &density
	}
	return rep
}

// verify casts the same ray voxel by voxel up to the marched distance, or
// a short reach on a miss, and compares the first solid cell.
func verify(m *march.Marcher, ray march.Ray, rep report) *reference {
	maxDist := 4 * physics.MaxReachDistance
	if rep.Hit {
		maxDist = rep.Distance + 2
	}

	exact := physics.Raycast(ray.Origin, ray.Direction, 0, maxDist, m.Classifier())
	ref := &reference{
		Hit:   exact.Hit,
		Steps: exact.Steps,
	}
	if exact.Hit {
		ref.Cell = exact.HitPosition
		ref.Normal = exact.Normal
		ref.Distance = exact.Distance
	}

	switch {
	case rep.Hit && exact.Hit:
		ref.Agrees = world.CellCoord(*rep.Cell) == exact.HitPosition
	case !rep.Hit:
		ref.Agrees = !exact.Hit
	}
	return ref
}
