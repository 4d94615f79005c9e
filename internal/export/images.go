package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mazznoer/csscolorparser"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
)

const (
	canvasWidth  = 1080
	canvasHeight = 1920
	textOriginX  = 50
	textOriginY  = 50
)

var textFace font.Face = basicfont.Face7x13

// renderImageArchive paints every slide and packs the PNGs into one deflated
// archive. Colors are validated for the whole deck before anything is drawn.
func renderImageArchive(plans []slidePlan) ([]byte, error) {
	type palette struct{ bg, fg color.RGBA }
	colors := make([]palette, len(plans))
	for i, p := range plans {
		bg, err := parseColor(p.Background)
		if err != nil {
			return nil, invalidColor(p.Index, "bg", p.Background, err)
		}
		fg, err := parseColor(p.Foreground)
		if err != nil {
			return nil, invalidColor(p.Index, "color", p.Foreground, err)
		}
		colors[i] = palette{bg: bg, fg: fg}
	}

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	for i, p := range plans {
		img := paintSlide(p.Text, colors[i].bg, colors[i].fg)

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   fmt.Sprintf("slide_%d.png", p.Index),
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add slide to archive")
		}
		if err := png.Encode(w, img); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode slide image")
		}
	}
	if err := zw.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize archive")
	}
	return archive.Bytes(), nil
}

func paintSlide(text string, bg, fg color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	metrics := textFace.Metrics()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: textFace,
	}
	// (50, 50) is the top-left of the first line, so the baseline sits one
	// ascent lower.
	baseline := textOriginY + metrics.Ascent.Ceil()
	for _, line := range strings.Split(text, "\n") {
		drawer.Dot = fixed.P(textOriginX, baseline)
		drawer.DrawString(line)
		baseline += metrics.Height.Ceil()
	}
	return img
}

// parseColor accepts CSS color strings. Slides are opaque, so alpha is
// dropped.
func parseColor(value string) (color.RGBA, error) {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b, _ := c.RGBA255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func invalidColor(index int, field, value string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("slide %d has an invalid %s color", index, field)).
		WithDetails(map[string]any{"slide": index, "field": field, "value": value})
}
