package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"

	"github.com/klauspost/compress/zip"

	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
)

// Geometry in EMU (914400 per inch). Slides are 10in x 7.5in and the text
// box sits at 1in,1in sized 8in x 5in.
const (
	emuPerInch   = 914400
	slideWidth   = 9144000
	slideHeight  = 6858000
	textBoxX     = 1 * emuPerInch
	textBoxY     = 1 * emuPerInch
	textBoxWidth = 8 * emuPerInch
	textBoxHigh  = 5 * emuPerInch

	firstSlideID = 256
)

type packagePart struct {
	name string
	body []byte
}

type deckSlide struct {
	Number     int
	ID         int
	RelID      string
	Paragraphs []string
}

var documentTemplates = template.Must(template.New("pptx").Funcs(template.FuncMap{
	"xml": escapeXML,
}).Parse(documentTemplateSource))

// renderPresentation writes a minimal OOXML presentation package with one
// slide per plan.
func renderPresentation(plans []slidePlan) ([]byte, error) {
	slides := make([]deckSlide, len(plans))
	for i, p := range plans {
		slides[i] = deckSlide{
			Number:     p.Index,
			ID:         firstSlideID + i,
			RelID:      fmt.Sprintf("rId%d", i+3),
			Paragraphs: strings.Split(p.Text, "\n"),
		}
	}

	data := map[string]any{
		"Slides":      slides,
		"SlideWidth":  slideWidth,
		"SlideHeight": slideHeight,
		"BoxX":        textBoxX,
		"BoxY":        textBoxY,
		"BoxWidth":    textBoxWidth,
		"BoxHeight":   textBoxHigh,
	}

	parts := []packagePart{}
	add := func(name, tmpl string, payload any) error {
		var buf bytes.Buffer
		if err := documentTemplates.ExecuteTemplate(&buf, tmpl, payload); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render "+name)
		}
		parts = append(parts, packagePart{name: name, body: buf.Bytes()})
		return nil
	}

	static := []struct{ name, tmpl string }{
		{"[Content_Types].xml", "content_types"},
		{"_rels/.rels", "root_rels"},
		{"ppt/presentation.xml", "presentation"},
		{"ppt/_rels/presentation.xml.rels", "presentation_rels"},
		{"ppt/slideMasters/slideMaster1.xml", "slide_master"},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slide_master_rels"},
		{"ppt/slideLayouts/slideLayout1.xml", "slide_layout"},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slide_layout_rels"},
		{"ppt/theme/theme1.xml", "theme"},
	}
	for _, part := range static {
		if err := add(part.name, part.tmpl, data); err != nil {
			return nil, err
		}
	}

	for _, s := range slides {
		slideData := map[string]any{
			"Slide":     s,
			"BoxX":      data["BoxX"],
			"BoxY":      data["BoxY"],
			"BoxWidth":  data["BoxWidth"],
			"BoxHeight": data["BoxHeight"],
		}
		if err := add(fmt.Sprintf("ppt/slides/slide%d.xml", s.Number), "slide", slideData); err != nil {
			return nil, err
		}
		if err := add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.Number), "slide_rels", slideData); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add document part")
		}
		if _, err := w.Write(part.body); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write document part")
		}
	}
	if err := zw.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize document")
	}
	return out.Bytes(), nil
}

func escapeXML(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
