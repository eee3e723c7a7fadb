package evidence

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"sort"

	"github.com/nfnt/resize"
)

// FilmstripOptions configures GIF output
type FilmstripOptions struct {
	MaxWidth uint // output width; frames keep their aspect ratio
	Delay    int  // per-frame delay in 100ths of a second
}

// Filmstrip collects one frame per step and encodes them as an animated GIF
type Filmstrip struct {
	opts   FilmstripOptions
	frames []image.Image
}

// NewFilmstrip applies defaults of 800px wide and 1.5s per frame
func NewFilmstrip(opts FilmstripOptions) *Filmstrip {
	if opts.MaxWidth == 0 {
		opts.MaxWidth = 800
	}
	if opts.Delay <= 0 {
		opts.Delay = 150
	}
	return &Filmstrip{opts: opts}
}

// AddPNG decodes a screenshot and appends it with markers drawn in
func (f *Filmstrip) AddPNG(data []byte, markers []Marker) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	f.Add(img, markers)
	return nil
}

// Add appends a frame
func (f *Filmstrip) Add(img image.Image, markers []Marker) {
	if len(markers) > 0 {
		img = Mark(img, markers)
	}
	f.frames = append(f.frames, img)
}

// Len is the number of frames collected
func (f *Filmstrip) Len() int {
	return len(f.frames)
}

// Encode writes the GIF. Every frame shares a palette built from the first.
func (f *Filmstrip) Encode(w io.Writer) error {
	if len(f.frames) == 0 {
		return fmt.Errorf("filmstrip: no frames")
	}
	bounds := f.frames[0].Bounds()
	width := f.opts.MaxWidth
	if uint(bounds.Dx()) < width {
		width = uint(bounds.Dx())
	}
	height := uint(float64(width) * float64(bounds.Dy()) / float64(bounds.Dx()))

	g := &gif.GIF{
		Image: make([]*image.Paletted, len(f.frames)),
		Delay: make([]int, len(f.frames)),
	}
	palette := buildPalette(f.frames[0])
	for i, frame := range f.frames {
		scaled := resize.Resize(width, height, frame, resize.Lanczos3)
		p := image.NewPaletted(scaled.Bounds(), palette)
		draw.FloydSteinberg.Draw(p, scaled.Bounds(), scaled, scaled.Bounds().Min)
		g.Image[i] = p
		g.Delay[i] = f.opts.Delay
	}
	return gif.EncodeAll(w, g)
}

// buildPalette takes the most frequent colors of a sampled frame, always
// keeping the marker colors so gestures survive quantisation.
func buildPalette(img image.Image) color.Palette {
	bounds := img.Bounds()
	counts := make(map[color.RGBA]int)
	const step = 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			counts[c]++
		}
	}

	type colorCount struct {
		c     color.RGBA
		count int
	}
	ranked := make([]colorCount, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, colorCount{c, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		a, b := ranked[i].c, ranked[j].c
		return uint32(a.R)<<16|uint32(a.G)<<8|uint32(a.B) < uint32(b.R)<<16|uint32(b.G)<<8|uint32(b.B)
	})

	palette := color.Palette{pressColor, dragColor, arrowEdge, arrowFill}
	seen := map[color.RGBA]bool{pressColor: true, dragColor: true, arrowEdge: true, arrowFill: true}
	for _, rc := range ranked {
		if len(palette) == 256 {
			break
		}
		if !seen[rc.c] {
			seen[rc.c] = true
			palette = append(palette, rc.c)
		}
	}
	for len(palette) < 256 {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{gray, gray, gray, 255})
	}
	return palette
}
