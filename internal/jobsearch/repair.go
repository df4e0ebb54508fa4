package jobsearch

import (
	"net/url"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

var buckets = []string{"passionRoles", "strengthRoles", "growthRoles"}

// repairOutput normalizes the loosely-parsed ranking result in place:
// description is coerced to a string (empty when missing or wrong-typed)
// and any url that is not an absolute URI is replaced with the placeholder.
// Malformed URLs from free-text generation are expected; they must never
// abort the request. Runs before strict schema validation.
func repairOutput(doc map[string]any) {
	for _, bucket := range buckets {
		arr, ok := doc[bucket].([]any)
		if !ok {
			continue
		}
		for _, item := range arr {
			job, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := job["description"].(string); !ok {
				job["description"] = ""
			}
			u, ok := job["url"].(string)
			if !ok || !isAbsoluteURL(u) {
				job["url"] = types.PlaceholderJobURL
			}
		}
	}
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
