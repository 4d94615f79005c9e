// Package export renders a project's slides into downloadable artifacts.
package export

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storyboard-backend/pkg/db/models"
	"github.com/angelmondragon/storyboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
)

const (
	ContentTypeZip  = "application/zip"
	ContentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	FileNameImages   = "slides.zip"
	FileNameDocument = "storyboard.pptx"

	defaultBackground = "#111827"
	defaultForeground = "#ffffff"

	videoNotImplementedMessage = "Video export not implemented"
)

// Artifact is a fully rendered export held in memory.
type Artifact struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Renderer turns an ordered slide list into one artifact per format. It never
// touches storage and never mutates the slides it is given.
type Renderer interface {
	RenderImages(slides []models.Slide) (Artifact, error)
	RenderDocument(slides []models.Slide) (Artifact, error)
	RenderVideo(slides []models.Slide) (Artifact, error)
}

// NewRenderer returns the in-memory renderer.
func NewRenderer() Renderer {
	return renderer{}
}

type renderer struct{}

func (renderer) RenderImages(slides []models.Slide) (Artifact, error) {
	data, err := renderImageArchive(planSlides(slides))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Data: data, ContentType: ContentTypeZip, FileName: FileNameImages}, nil
}

func (renderer) RenderDocument(slides []models.Slide) (Artifact, error) {
	data, err := renderPresentation(planSlides(slides))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Data: data, ContentType: ContentTypePPTX, FileName: FileNameDocument}, nil
}

func (renderer) RenderVideo([]models.Slide) (Artifact, error) {
	return Artifact{}, pkgerrors.New(pkgerrors.CodeNotImplemented, videoNotImplementedMessage)
}

// Render dispatches on format.
func Render(r Renderer, format enums.ExportFormat, slides []models.Slide) (Artifact, error) {
	switch format {
	case enums.ExportFormatImages:
		return r.RenderImages(slides)
	case enums.ExportFormatDocument:
		return r.RenderDocument(slides)
	case enums.ExportFormatVideo:
		return r.RenderVideo(slides)
	}
	return Artifact{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid format").
		WithDetails(map[string]any{"format": string(format)})
}

// slidePlan is a slide with every default applied. Index is 1-based.
type slidePlan struct {
	Index      int
	Text       string
	Background string
	Foreground string
}

// planSlides resolves defaults in presentation order. An empty deck still
// renders one default slide.
func planSlides(slides []models.Slide) []slidePlan {
	if len(slides) == 0 {
		slides = []models.Slide{{}}
	}
	plans := make([]slidePlan, 0, len(slides))
	for i, s := range slides {
		n := i + 1
		plan := slidePlan{
			Index:      n,
			Text:       fmt.Sprintf("Slide %d", n),
			Background: defaultBackground,
			Foreground: defaultForeground,
		}
		if s.Text != nil {
			plan.Text = *s.Text
		}
		if s.BG != nil && strings.TrimSpace(*s.BG) != "" {
			plan.Background = strings.TrimSpace(*s.BG)
		}
		if s.Color != nil && strings.TrimSpace(*s.Color) != "" {
			plan.Foreground = strings.TrimSpace(*s.Color)
		}
		plans = append(plans, plan)
	}
	return plans
}
