package hooks

import (
	"encoding/json"
	"net/http"

	"github.com/cbroglie/mustache"
	"github.com/rs/zerolog/log"
)

// Payload is the resolved body and header set for one delivery. Body is nil
// when the hook has no template or the template failed to render.
type Payload struct {
	Body        *string
	ContentType string
	Headers     map[string]string
}

// EncodePayload renders the hook's body template against the event context
// and infers the content type: output that parses as JSON is sent as
// application/json verbatim (never re-serialized), anything else as
// text/plain. User-supplied headers are merged on top, so an explicit
// Content-Type wins over the inferred one.
//
// Operator-authored templates are untrusted input. A template that fails to
// render and headers that fail to parse both degrade gracefully rather than
// aborting the delivery.
func EncodePayload(bodyTemplate, headersJSON, hookID string, context map[string]interface{}) Payload {
	contentType := "text/plain"

	var body *string
	if bodyTemplate != "" {
		rendered, err := mustache.Render(bodyTemplate, context)
		if err != nil {
			log.Warn().Err(err).Str("hook_id", hookID).Msg("hook body template failed to render")
		} else {
			body = &rendered
			if json.Valid([]byte(rendered)) {
				contentType = "application/json"
			}
		}
	}

	headers := map[string]string{
		"Content-Type": contentType,
	}
	for k, v := range parseHeaders(headersJSON, hookID) {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	return Payload{Body: body, ContentType: contentType, Headers: headers}
}

// parseHeaders decodes the hook's stored header mapping. Malformed JSON is an
// operator mistake, not a delivery failure: it is logged and the headers
// default to empty.
func parseHeaders(raw, hookID string) map[string]string {
	if raw == "" {
		return nil
	}
	var headers map[string]string
	if err := json.Unmarshal([]byte(raw), &headers); err != nil {
		log.Error().Err(err).Str("hook_id", hookID).Msg("bad headers JSON for hook, ignoring")
		return nil
	}
	return headers
}
