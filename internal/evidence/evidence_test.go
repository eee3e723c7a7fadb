package evidence

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/flightcheck/internal/ui"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveScreenshotName(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "shots"), filepath.Join(dir, "artifacts"), nil)
	s.now = func() time.Time { return time.Date(2025, 11, 15, 9, 4, 5, 0, time.UTC) }

	path, err := s.SaveScreenshot("airline price sort", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shots", "airline_price_sort_20251115_090405.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestAttachRecordsInOrder(t *testing.T) {
	s := NewStore(t.TempDir(), t.TempDir(), nil)

	a, err := s.Attach("one-way", "Verification Summary (One-Way)", "PASSED")
	require.NoError(t, err)
	assert.Equal(t, "Verification_Summary__One-Way_.txt", filepath.Base(a.Path))

	_, err = s.AttachFile("one-way", "page.json", "Page Map", []byte(`{}`))
	require.NoError(t, err)

	got := s.Attachments()
	require.Len(t, got, 2)
	assert.Equal(t, "PASSED", got[0].Content)
	assert.Equal(t, "{}", got[1].Content)
	assert.Equal(t, filepath.Dir(a.Path), s.ArtifactDir("one-way"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "unnamed", slug("  "))
	assert.Equal(t, "T_rk_Hava", slug("Türk Hava"))
}

func TestMarkDrawsDragAndLeavesSourceUntouched(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	src := solid(200, 100, white)

	out := Mark(src, []Marker{{X: 20, Y: 50, DX: 100}})

	assert.Equal(t, white, src.RGBAAt(70, 50))
	assert.Equal(t, dragColor, out.RGBAAt(70, 50), "drag line")
	assert.Equal(t, pressColor, out.RGBAAt(20, 38), "press ring")
	assert.Equal(t, arrowEdge, out.RGBAAt(120, 60), "arrow outline at release point")
}

func TestMarkClipsAtEdges(t *testing.T) {
	out := Mark(solid(10, 10, color.RGBA{A: 255}), []Marker{{X: 9, Y: 9, DX: 50, DY: 50}})
	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())
}

func TestFilmstripEncode(t *testing.T) {
	f := NewFilmstrip(FilmstripOptions{MaxWidth: 100})
	require.NoError(t, f.AddPNG(encodePNG(t, solid(200, 100, color.RGBA{200, 200, 200, 255})), nil))
	f.Add(solid(200, 100, color.RGBA{10, 10, 10, 255}), []Marker{{X: 50, Y: 50}})
	assert.Equal(t, 2, f.Len())

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, g.Image, 2)
	assert.Equal(t, 100, g.Image[0].Bounds().Dx())
	assert.Equal(t, 50, g.Image[0].Bounds().Dy())
	assert.Equal(t, []int{150, 150}, g.Delay)
}

func TestFilmstripNeverUpscales(t *testing.T) {
	f := NewFilmstrip(FilmstripOptions{})
	f.Add(solid(40, 20, color.RGBA{A: 255}), nil)

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, 40, g.Image[0].Bounds().Dx())
}

func TestFilmstripRejectsEmpty(t *testing.T) {
	assert.Error(t, NewFilmstrip(FilmstripOptions{}).Encode(&bytes.Buffer{}))
	assert.Error(t, NewFilmstrip(FilmstripOptions{}).AddPNG([]byte("not a png"), nil))
}

func TestBuildPaletteKeepsMarkerColors(t *testing.T) {
	p := buildPalette(solid(16, 16, color.RGBA{1, 2, 3, 255}))
	assert.Len(t, p, 256)
	assert.Equal(t, color.Color(pressColor), p[0])
	assert.Contains(t, p, color.Color(color.RGBA{1, 2, 3, 255}))
}

type recordedPointer struct{ calls []string }

func (r *recordedPointer) Press(x, y float64) error  { r.calls = append(r.calls, "press"); return nil }
func (r *recordedPointer) MoveBy(dx, dy float64) error { r.calls = append(r.calls, "move"); return nil }
func (r *recordedPointer) Release() error             { r.calls = append(r.calls, "release"); return nil }

func TestTrailRecordsGestures(t *testing.T) {
	inner := &recordedPointer{}
	tr := NewTrail(func() ui.Pointer { return inner })

	require.NoError(t, tr.Press(10.4, 20.6))
	require.NoError(t, tr.MoveBy(30, 0))
	require.NoError(t, tr.MoveBy(-5, 0))
	require.NoError(t, tr.Release())

	assert.Equal(t, []string{"press", "move", "move", "release"}, inner.calls)
	assert.Equal(t, []Marker{{X: 10, Y: 21, DX: 25}}, tr.Take())
	assert.Empty(t, tr.Take())
}

func TestTrailFollowsReplacedPointer(t *testing.T) {
	home, results := &recordedPointer{}, &recordedPointer{}
	current := home
	tr := NewTrail(func() ui.Pointer { return current })

	require.NoError(t, tr.Press(1, 1))
	require.NoError(t, tr.Release())
	current = results
	require.NoError(t, tr.Press(5, 5))
	require.NoError(t, tr.MoveBy(10, 0))
	require.NoError(t, tr.Release())

	assert.Equal(t, []string{"press", "release"}, home.calls)
	assert.Equal(t, []string{"press", "move", "release"}, results.calls)
	assert.Len(t, tr.Take(), 2)
}
