package classifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
)

func TestClassifyPostsMultipartImage(t *testing.T) {
	t.Parallel()

	var gotField, gotFilename, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		for field, headers := range r.MultipartForm.File {
			gotField = field
			gotFilename = headers[0].Filename
			f, err := headers[0].Open()
			if err != nil {
				t.Errorf("open part: %v", err)
				return
			}
			body, _ := io.ReadAll(f)
			_ = f.Close()
			gotBody = string(body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"predictedLabel":"Smartphone","confidence":97.4}]}`))
	}))
	defer server.Close()

	client, err := NewClient(config.ClassifierConfig{Endpoint: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	prediction, err := client.Classify(context.Background(), "phone.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if gotField != "image" {
		t.Fatalf("expected form field %q, got %q", "image", gotField)
	}
	if gotFilename != "phone.jpg" {
		t.Fatalf("unexpected filename %q", gotFilename)
	}
	if gotBody != "jpeg-bytes" {
		t.Fatalf("unexpected uploaded body %q", gotBody)
	}
	if prediction.Label != "Smartphone" {
		t.Fatalf("unexpected label %q", prediction.Label)
	}
	if prediction.Confidence != 97.4 {
		t.Fatalf("unexpected confidence %f", prediction.Confidence)
	}
}

func TestClassifyParsesStringConfidence(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"predictedLabel":"Laptop","confidence":"88.20"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(config.ClassifierConfig{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	prediction, err := client.Classify(context.Background(), "laptop.png", "image/png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if prediction.Confidence != 88.2 {
		t.Fatalf("unexpected confidence %f", prediction.Confidence)
	}
	if prediction.RawConfidence != "88.20" {
		t.Fatalf("raw confidence should keep the upstream form, got %q", prediction.RawConfidence)
	}
}

func TestClassifyAcceptsAnySuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"results":[{"predictedLabel":"Smartphone","confidence":"95"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(config.ClassifierConfig{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	prediction, err := client.Classify(context.Background(), "phone.jpg", "image/jpeg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("a 2xx response must not fail: %v", err)
	}
	if prediction.Label != "Smartphone" || prediction.RawConfidence != "95" {
		t.Fatalf("unexpected prediction %+v", prediction)
	}
}

func TestClassifyRejectsEmptyResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(config.ClassifierConfig{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Classify(context.Background(), "x.jpg", "image/jpeg", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for empty results")
	}
}

func TestClassifySurfacesUpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("model unavailable"))
	}))
	defer server.Close()

	client, err := NewClient(config.ClassifierConfig{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Classify(context.Background(), "x.jpg", "image/jpeg", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected upstream body in error, got %v", err)
	}
}
