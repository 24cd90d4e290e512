package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"testing"

	"voxel-engine/internal/config"
	"voxel-engine/internal/march"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func flatMarcher(t testing.TB) *march.Marcher {
	t.Helper()
	c := config.Default()
	c.WaterLevel = 0
	c.Terrain.Mountains.Amplitude = 0.1
	c.Terrain.Hills.Amplitude = 0.05
	c.Terrain.Bumps.Amplitude = 0.02
	c.Caves.Amplitude = 0.1
	c.Caves.Threshold = 5
	c.Ores = nil
	m, err := march.New(c)
	require.NoError(t, err)
	return m
}

func TestCameraBasis(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{0, 100, 0})
	cam.Pitch = -0.4
	cam.Yaw = 0.3

	f, r, u := cam.Basis()
	require.InDelta(t, 1, f.Len(), 1e-12)
	require.InDelta(t, 1, r.Len(), 1e-12)
	require.InDelta(t, 1, u.Len(), 1e-12)
	require.InDelta(t, 0, f.Dot(r), 1e-12)
	require.InDelta(t, 0, f.Dot(u), 1e-12)
	require.InDelta(t, 0, r.Dot(u), 1e-12)
	require.Greater(t, u.Y(), 0.0)
}

func TestCameraLooksDownNegativeZ(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{})
	f := cam.Forward()
	require.InDelta(t, 0, f.X(), 1e-9)
	require.InDelta(t, -1, f.Z(), 1e-9)
}

func TestRayAt(t *testing.T) {
	cam := NewCamera(mgl64.Vec3{1, 2, 3})

	// Odd size puts the centre pixel exactly on the view axis.
	centre := cam.RayAt(2, 2, 5, 5)
	require.Equal(t, cam.Position, centre.Origin)
	require.InDelta(t, 1, centre.Direction.Dot(cam.Forward()), 1e-12)

	topLeft := cam.RayAt(0, 0, 5, 5)
	bottomRight := cam.RayAt(4, 4, 5, 5)
	require.InDelta(t, 1, topLeft.Direction.Len(), 1e-12)
	require.Greater(t, topLeft.Direction.Y(), 0.0)
	require.Less(t, bottomRight.Direction.Y(), 0.0)
	require.InDelta(t, topLeft.Direction.Y(), -bottomRight.Direction.Y(), 1e-12)

	// Half the vertical FOV between the top edge and the axis.
	edge := cam.RayAt(2, 0, 5, 1<<20)
	require.InDelta(t, DefaultFOV/2, math.Acos(edge.Direction.Dot(cam.Forward())), 1e-5)
}

func TestPaletteShader(t *testing.T) {
	m := flatMarcher(t)
	s := NewPaletteShader(m.Classifier())

	up := march.Ray{Direction: mgl64.Vec3{0, 1, 0}}
	require.Equal(t, toRGBA(s.SkyZenith), s.Shade(up, march.Result{}))

	down := march.Ray{Origin: mgl64.Vec3{0.5, 100, 0.5}, Direction: mgl64.Vec3{0, -1, 0}}
	res := m.March(down)
	require.True(t, res.Hit)

	s.FogDistance = 0
	grass := m.Classifier().Classify(res.Cell).Color()
	require.Equal(t, toRGBA(grass), s.Shade(down, res))
}

func TestRenderFrame(t *testing.T) {
	m := flatMarcher(t)
	r := NewRenderer(m, NewPaletteShader(m.Classifier()), 4)
	defer r.Close()

	cam := NewCamera(mgl64.Vec3{0, 90, 0})
	cam.Pitch = -math.Pi / 2 * 0.9

	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	stats, err := r.Render(context.Background(), cam, img)
	require.NoError(t, err)
	require.Equal(t, 16*12, stats.Rays)
	require.Equal(t, stats.Rays, stats.Hits)
	require.Greater(t, stats.MeanSteps(), 1.0)

	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			require.Equal(t, uint8(255), img.RGBAAt(x, y).A)
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	m := flatMarcher(t)
	r := NewRenderer(m, NewPaletteShader(m.Classifier()), 2)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	stats, err := r.Render(ctx, NewCamera(mgl64.Vec3{0, 90, 0}), img)
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeFrameCancelled))
	require.Zero(t, stats.Rays)
	require.Equal(t, color.RGBA{}, img.RGBAAt(3, 3))
}

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{200, 200, 200, 255}), image.Point{}, draw.Src)
	img.SetRGBA(1, 2, color.RGBA{10, 20, 30, 255})

	decoders := map[string]func(*bytes.Reader) (image.Image, error){
		"png":  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		"bmp":  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		"tiff": func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, format))

			decoded, err := decoders[format](bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			require.Equal(t, img.Bounds(), decoded.Bounds())

			r, g, b, _ := decoded.At(1, 2).RGBA()
			require.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})
		})
	}

	err := Encode(&bytes.Buffer{}, img, "gif")
	require.True(t, errors.IsType(err, ErrTypeUnsupportedFormat))
}

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, "png", FormatFromPath("out/frame.PNG"))
	require.Equal(t, "tiff", FormatFromPath("frame.tif"))
	require.Equal(t, "bmp", FormatFromPath("frame.bmp"))
	require.Equal(t, "", FormatFromPath("frame"))
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	lines := []string{"fps 60", "lod 8"}
	DrawLabel(img, 2, 2, lines)

	lit := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if img.RGBAAt(x, y).R == 255 {
				lit++
			}
		}
	}
	require.Greater(t, lit, 10)

	size := LabelSize(lines)
	require.Equal(t, 2*LineHeight+1, size.Y)
	require.Equal(t, 6*7+1, size.X)
}
