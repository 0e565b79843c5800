// Package annotate draws snapshot elements on a device screenshot so
// classification and labels can be checked by eye.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/mj1618/droid-cli/internal/model"
)

// LabelMode controls what text is drawn on each annotated element.
type LabelMode int

const (
	// LabelNames draws the element label.
	LabelNames LabelMode = iota
	// LabelIndexes draws the element's position in the snapshot.
	LabelIndexes
	// LabelCoords draws "(x,y)" device center coordinates.
	LabelCoords
)

// ParseLabelMode converts a flag value to a LabelMode.
func ParseLabelMode(s string) (LabelMode, error) {
	switch s {
	case "", "label", "labels":
		return LabelNames, nil
	case "index", "indexes":
		return LabelIndexes, nil
	case "coords":
		return LabelCoords, nil
	default:
		return LabelNames, fmt.Errorf("unknown label mode %q (expected label, index or coords)", s)
	}
}

// Options configures Annotate.
type Options struct {
	Mode LabelMode
	// ScreenWidth and ScreenHeight are the device size in pixels the element
	// rectangles refer to. Zero means the screenshot is at device resolution.
	ScreenWidth, ScreenHeight int
}

var (
	buttonColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	fieldColor   = color.RGBA{R: 0, G: 120, B: 255, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Annotate returns a copy of img with a box and label for every element.
// Buttons are outlined in red, fields in blue.
func Annotate(img image.Image, elements []model.Element, opts Options) *image.RGBA {
	rgba := ToRGBA(img)
	b := img.Bounds()

	scaleX, scaleY := 1.0, 1.0
	if opts.ScreenWidth > 0 {
		scaleX = float64(b.Dx()) / float64(opts.ScreenWidth)
	}
	if opts.ScreenHeight > 0 {
		scaleY = float64(b.Dy()) / float64(opts.ScreenHeight)
	}

	for i, el := range elements {
		r := el.Rect
		x1 := b.Min.X + int(float64(r.X1)*scaleX)
		y1 := b.Min.Y + int(float64(r.Y1)*scaleY)
		x2 := b.Min.X + int(float64(r.X2)*scaleX)
		y2 := b.Min.Y + int(float64(r.Y2)*scaleY)

		c := buttonColor
		if el.Editable {
			c = fieldColor
		}
		drawRectangle(rgba, x1, y1, x2, y2, c)
		drawTextWithOutline(rgba, labelFor(el, i, opts.Mode), (x1+x2)/2, (y1+y2)/2)
	}
	return rgba
}

func labelFor(el model.Element, i int, mode LabelMode) string {
	switch mode {
	case LabelIndexes:
		return "[" + strconv.Itoa(i+1) + "]"
	case LabelCoords:
		return fmt.Sprintf("(%d,%d)", el.Rect.CenterX, el.Rect.CenterY)
	default:
		return el.Label
	}
}

// ToRGBA converts any image to RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// drawRectangle draws a two pixel outline clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < 2; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, r.Min.Y+t, c)
			img.Set(x, r.Max.Y-1-t, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.Set(r.Min.X+t, y, c)
			img.Set(r.Max.X-1-t, y, c)
		}
	}
}

// drawTextWithOutline draws text centered at (x, y) with a dark outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	origin := fixed.P(x-width/2, y+ascent/2)

	d := &font.Drawer{Dst: img, Face: face, Src: image.NewUniform(outlineColor)}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = origin.Add(fixed.P(dx, dy))
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(textColor)
	d.Dot = origin
	d.DrawString(text)
}

// LoadImage decodes a PNG, JPEG or WebP screenshot.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot %s: %w", path, err)
	}
	return img, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
