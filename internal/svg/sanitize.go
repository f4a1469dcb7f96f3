// Package svg sanitizes and validates generated vector content before it is
// persisted or served. Generated markup is untrusted regardless of source.
package svg

import "regexp"

// Denylist of executable or embedding-capable constructs. Removal happens
// before validation and before persistence.
var (
	scriptRe        = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	foreignObjectRe = regexp.MustCompile(`(?is)<foreignObject[^>]*>.*?</foreignObject>`)
	imageRe         = regexp.MustCompile(`(?i)<image[^>]*>`)
	eventHandlerRe  = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*["'][^"']*["']`)
)

// Sanitize strips script blocks, foreignObject embeds, raster image
// references and inline event-handler attributes.
func Sanitize(raw string) string {
	raw = scriptRe.ReplaceAllString(raw, "")
	raw = foreignObjectRe.ReplaceAllString(raw, "")
	raw = imageRe.ReplaceAllString(raw, "")
	raw = eventHandlerRe.ReplaceAllString(raw, "")
	return raw
}
