package enums

import (
	"fmt"
	"strings"
)

// ExportFormat selects the artifact the export renderer produces.
type ExportFormat string

const (
	ExportFormatImages   ExportFormat = "images"
	ExportFormatDocument ExportFormat = "document"
	ExportFormatVideo    ExportFormat = "video"
)

// exportFormatPPTX is the wire name the storyboard client sends for documents.
const exportFormatPPTX = "pptx"

var validExportFormats = []ExportFormat{
	ExportFormatImages,
	ExportFormatDocument,
	ExportFormatVideo,
}

func (f ExportFormat) String() string {
	return string(f)
}

func (f ExportFormat) IsValid() bool {
	for _, candidate := range validExportFormats {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseExportFormat accepts the canonical names plus the "pptx" alias.
func ParseExportFormat(value string) (ExportFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == exportFormatPPTX {
		return ExportFormatDocument, nil
	}
	for _, candidate := range validExportFormats {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid export format %q", value)
}
