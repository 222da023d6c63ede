package recipe

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NoInstructions is shown when a source has no instructions.
const NoInstructions = "No instructions available."

var instructionPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em")
	return p
}()

// Sanitize keeps only p, br, strong and em markup.
func Sanitize(html string) string {
	return strings.TrimSpace(instructionPolicy.Sanitize(html))
}

func sanitizeInstructions(html string) string {
	if s := Sanitize(html); s != "" {
		return s
	}
	return NoInstructions
}
