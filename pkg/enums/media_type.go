package enums

import (
	"fmt"
	"strings"
)

// MediaType tags an uploaded asset.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

var validMediaTypes = []MediaType{
	MediaTypeImage,
	MediaTypeVideo,
}

func (m MediaType) String() string {
	return string(m)
}

func (m MediaType) IsValid() bool {
	for _, candidate := range validMediaTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseMediaType(value string) (MediaType, error) {
	for _, candidate := range validMediaTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media type %q", value)
}

// MediaTypeForContentType maps video/* to video and everything else to image.
func MediaTypeForContentType(contentType string) MediaType {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video") {
		return MediaTypeVideo
	}
	return MediaTypeImage
}
