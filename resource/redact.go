package resource

import (
	"bytes"
	"encoding/json"
)

// Redacted replaces sensitive values in logged requests.
const Redacted = "<redacted>"

// sensitiveKeys are the source fields never logged in clear.
var sensitiveKeys = []string{"api_key", "gpg_passphrase"}

// RedactedInput pretty-prints a request with inline credentials redacted.
// Input that is not a JSON object is returned as is.
func RedactedInput(input []byte) string {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return string(input)
	}

	if source, ok := doc["source"].(map[string]any); ok {
		for _, key := range sensitiveKeys {
			if _, isString := source[key].(string); isString {
				source[key] = Redacted
			}
		}
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return string(input)
	}
	return string(bytes.TrimSuffix(out.Bytes(), []byte("\n")))
}
