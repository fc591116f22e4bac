package hooks

import (
	"encoding/json"
	"testing"

	"pulse/internal/platform/models"
)

func testContext(text string) map[string]interface{} {
	return BuildContext(
		&models.Project{ID: "p1", Name: "Proj"},
		EventStatus,
		&models.StatusUpdate{Author: "ana", Text: text, CreatedAt: "2026-01-02T03:04:05Z"},
	)
}

func TestEncodePayload_JSONTemplate(t *testing.T) {
	p := EncodePayload(`{"msg":"{{{update.text}}}"}`, "", "h1", testContext("hello"))

	if p.Body == nil {
		t.Fatal("Expected a body")
	}
	if *p.Body != `{"msg":"hello"}` {
		t.Errorf("Expected rendered JSON body, got %s", *p.Body)
	}
	if p.ContentType != "application/json" {
		t.Errorf("Expected application/json, got %s", p.ContentType)
	}
	if p.Headers["Content-Type"] != "application/json" {
		t.Errorf("Expected inferred Content-Type header, got %v", p.Headers)
	}
}

func TestEncodePayload_PlainFallback(t *testing.T) {
	p := EncodePayload(`Status: {{update.text}}!!`, "", "h1", testContext("hello"))

	if p.Body == nil || *p.Body != "Status: hello!!" {
		t.Errorf("Expected verbatim plain body, got %v", p.Body)
	}
	if p.ContentType != "text/plain" {
		t.Errorf("Expected text/plain, got %s", p.ContentType)
	}
}

func TestEncodePayload_NoTemplate(t *testing.T) {
	p := EncodePayload("", "", "h1", testContext("hello"))

	if p.Body != nil {
		t.Errorf("Expected no body, got %q", *p.Body)
	}
	if p.ContentType != "text/plain" {
		t.Errorf("Expected text/plain default, got %s", p.ContentType)
	}
}

// Raw (triple-brace) substitution must not mangle JSON-escaped text: the
// rendered body has to parse as JSON whose field decodes back to the exact
// original string.
func TestEncodePayload_JSONRoundTrip(t *testing.T) {
	original := "He said \"hi\"\nand a backslash \\"
	escaped, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	// Strip the surrounding quotes; the template supplies them.
	text := string(escaped[1 : len(escaped)-1])

	p := EncodePayload(`{"msg":"{{{update.text}}}"}`, "", "h1", testContext(text))
	if p.Body == nil {
		t.Fatal("Expected a body")
	}
	if p.ContentType != "application/json" {
		t.Fatalf("Expected application/json, got %s with body %s", p.ContentType, *p.Body)
	}

	var decoded struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal([]byte(*p.Body), &decoded); err != nil {
		t.Fatalf("Rendered body does not parse as JSON: %v", err)
	}
	if decoded.Msg != original {
		t.Errorf("Round trip mismatch:\nwant %q\ngot  %q", original, decoded.Msg)
	}

	// The HTML-escaping form corrupts the same payload, which is why the
	// raw form exists.
	escapedForm := EncodePayload(`{"msg":"{{update.text}}"}`, "", "h1", testContext(text))
	if escapedForm.Body != nil && *escapedForm.Body == *p.Body {
		t.Error("Expected double-brace render to differ from raw render for quoted text")
	}
}

func TestEncodePayload_Idempotent(t *testing.T) {
	ctx := testContext("hello")
	first := EncodePayload(`{"msg":"{{{update.text}}}","at":"{{update.created_at}}"}`, "", "h1", ctx)
	second := EncodePayload(`{"msg":"{{{update.text}}}","at":"{{update.created_at}}"}`, "", "h1", ctx)

	if first.Body == nil || second.Body == nil || *first.Body != *second.Body {
		t.Errorf("Expected identical renders, got %v vs %v", first.Body, second.Body)
	}
}

func TestEncodePayload_MissingPathRendersEmpty(t *testing.T) {
	p := EncodePayload(`[{{update.nope}}]`, "", "h1", testContext("hello"))
	if p.Body == nil || *p.Body != "[]" {
		t.Errorf("Expected missing path to render empty, got %v", p.Body)
	}
}

func TestEncodePayload_UserHeaders(t *testing.T) {
	p := EncodePayload(`Status: {{update.text}}`, `{"X-Token":"abc","content-type":"application/xml"}`, "h1", testContext("hello"))

	if p.Headers["X-Token"] != "abc" {
		t.Errorf("Expected user header preserved, got %v", p.Headers)
	}
	// Explicit header overrides the inferred content type.
	if p.Headers["Content-Type"] != "application/xml" {
		t.Errorf("Expected user Content-Type to win, got %v", p.Headers)
	}
}

func TestEncodePayload_BadHeadersIgnored(t *testing.T) {
	p := EncodePayload(`{"ok":true}`, `{not json`, "h1", testContext("hello"))

	if p.Body == nil || *p.Body != `{"ok":true}` {
		t.Errorf("Expected body unaffected by bad headers, got %v", p.Body)
	}
	if len(p.Headers) != 1 || p.Headers["Content-Type"] != "application/json" {
		t.Errorf("Expected inferred headers only, got %v", p.Headers)
	}
}

func TestEncodePayload_BadTemplate(t *testing.T) {
	p := EncodePayload(`{{#unclosed`, "", "h1", testContext("hello"))

	if p.Body != nil {
		t.Errorf("Expected no body for unrenderable template, got %q", *p.Body)
	}
	if p.ContentType != "text/plain" {
		t.Errorf("Expected text/plain, got %s", p.ContentType)
	}
}
