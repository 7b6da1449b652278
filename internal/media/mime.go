package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var logoMimeTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

var logoMimeNames = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPEG",
	"image/webp": "WebP",
	"image/gif":  "GIF",
}

func allowedLogoMime(detected *mimetype.MIME) (string, bool) {
	for _, candidate := range logoMimeTypes {
		if detected.Is(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func allowedLogoDescription() string {
	names := make([]string, 0, len(logoMimeTypes))
	for _, value := range logoMimeTypes {
		names = append(names, logoMimeNames[value])
	}
	return humanReadableList(names)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
