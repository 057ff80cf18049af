package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupCoverURLPrefersExtraLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["search"] != "Berserk" {
			t.Errorf("search variable = %v", req.Variables["search"])
		}
		w.Write([]byte(`{"data":{"Media":{"id":30002,"coverImage":{"extraLarge":"https://img.example/xl.jpg","large":"https://img.example/l.jpg"}}}}`))
	}))
	defer server.Close()

	client := New(server.URL, "tanko-test")
	url, err := client.LookupCoverURL(context.Background(), "Berserk")
	if err != nil {
		t.Fatalf("LookupCoverURL: %v", err)
	}
	if url != "https://img.example/xl.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestLookupCoverURLFallsBackToLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"Media":{"id":1,"coverImage":{"large":"https://img.example/l.jpg"}}}}`))
	}))
	defer server.Close()

	client := New(server.URL, "tanko-test")
	url, err := client.LookupCoverURL(context.Background(), "Anything")
	if err != nil {
		t.Fatalf("LookupCoverURL: %v", err)
	}
	if url != "https://img.example/l.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestLookupCoverURLNoMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"Media":null}}`))
	}))
	defer server.Close()

	client := New(server.URL, "tanko-test")
	url, err := client.LookupCoverURL(context.Background(), "Unknown")
	if err != nil {
		t.Fatalf("LookupCoverURL: %v", err)
	}
	if url != "" {
		t.Fatalf("expected empty url, got %q", url)
	}
}

func TestLookupCoverURLServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "tanko-test")
	if _, err := client.LookupCoverURL(context.Background(), "Anything"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
