package intake

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips markup from free text. Entities escaped by the policy
// are decoded again so ampersands and quotes reach the webhook unchanged.
func sanitizeText(raw string) string {
	if raw == "" || !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	return html.UnescapeString(textSanitizer().Sanitize(raw))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

func sanitizeValues(values map[string]any) map[string]any {
	for key, value := range values {
		switch v := value.(type) {
		case string:
			values[key] = sanitizeText(v)
		case []any:
			for i, item := range v {
				if s, ok := item.(string); ok {
					v[i] = sanitizeText(s)
				}
			}
		}
	}
	return values
}
