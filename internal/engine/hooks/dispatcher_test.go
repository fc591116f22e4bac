package hooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDispatcher_Deliver(t *testing.T) {
	var gotMethod, gotBody, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	d := NewDispatcher(time.Second)
	body := `{"msg":"hello"}`
	result := d.Deliver(context.Background(), server.URL, "POST",
		map[string]string{"Content-Type": "application/json"}, &body)

	if !result.Delivered() {
		t.Fatalf("Expected delivery, got error %v", result.Err)
	}
	if result.StatusCode != 200 || result.Body != "ok" {
		t.Errorf("Expected 200/ok, got %d/%q", result.StatusCode, result.Body)
	}
	if gotMethod != "POST" || gotBody != body || gotContentType != "application/json" {
		t.Errorf("Unexpected request: method=%s body=%q content-type=%s", gotMethod, gotBody, gotContentType)
	}
}

func TestDispatcher_DefaultMethod(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer server.Close()

	d := NewDispatcher(time.Second)
	if result := d.Deliver(context.Background(), server.URL, "", nil, nil); !result.Delivered() {
		t.Fatalf("Expected delivery, got %v", result.Err)
	}
	if gotMethod != "POST" {
		t.Errorf("Expected method to default to POST, got %s", gotMethod)
	}
}

func TestDispatcher_GETOmitsBody(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer server.Close()

	d := NewDispatcher(time.Second)
	body := "should not be sent"
	result := d.Deliver(context.Background(), server.URL, "get", nil, &body)

	if !result.Delivered() {
		t.Fatalf("Expected delivery, got %v", result.Err)
	}
	if gotBody != "" {
		t.Errorf("Expected GET to omit body, got %q", gotBody)
	}
}

func TestDispatcher_NonSuccessStatusIsDelivered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	d := NewDispatcher(time.Second)
	result := d.Deliver(context.Background(), server.URL, "POST", nil, nil)

	if !result.Delivered() {
		t.Fatalf("Expected 5xx to count as delivered, got %v", result.Err)
	}
	if result.StatusCode != 500 || result.Body != "boom" {
		t.Errorf("Expected 500/boom, got %d/%q", result.StatusCode, result.Body)
	}
}

func TestDispatcher_TruncatesResponseBody(t *testing.T) {
	long := strings.Repeat("a", 2500)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(long))
	}))
	defer server.Close()

	d := NewDispatcher(time.Second)
	result := d.Deliver(context.Background(), server.URL, "POST", nil, nil)

	if len(result.Body) != 2000 {
		t.Errorf("Expected body truncated to 2000 chars, got %d", len(result.Body))
	}

	short := strings.Repeat("b", 1999)
	server2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(short))
	}))
	defer server2.Close()

	if result := d.Deliver(context.Background(), server2.URL, "POST", nil, nil); result.Body != short {
		t.Errorf("Expected short body unmodified, got %d chars", len(result.Body))
	}
}

func TestDispatcher_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	d := NewDispatcher(time.Second)
	result := d.Deliver(context.Background(), url, "POST", nil, nil)

	if result.Delivered() {
		t.Fatal("Expected a failure for unreachable host")
	}
	if result.Err == nil || result.StatusCode != 0 {
		t.Errorf("Expected error and no status code, got %v / %d", result.Err, result.StatusCode)
	}
}
