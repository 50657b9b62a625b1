package chi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/melodex-audio/melodex/internal/domain"
	"github.com/melodex-audio/melodex/internal/domain/section"
	healthuc "github.com/melodex-audio/melodex/internal/usecase/health"
)

type mockSearcher struct {
	streamFn func(ctx context.Context, query string) (<-chan section.Section, error)
	searchFn func(ctx context.Context, query string, types []domain.ContentType, limit int) ([]section.Hit, error)
}

func (m *mockSearcher) Stream(ctx context.Context, query string) (<-chan section.Section, error) {
	return m.streamFn(ctx, query)
}

func (m *mockSearcher) Search(ctx context.Context, query string, types []domain.ContentType, limit int) ([]section.Hit, error) {
	return m.searchFn(ctx, query, types, limit)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestServer(search Searcher) *Server {
	return NewServer(search, &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}}, "fingerprint", zap.NewNop())
}

func TestHandleSearch(t *testing.T) {
	search := &mockSearcher{
		searchFn: func(_ context.Context, query string, types []domain.ContentType, limit int) ([]section.Hit, error) {
			if query != "nirvana" {
				t.Errorf("query = %q, want nirvana", query)
			}
			if len(types) != 1 || types[0] != domain.ContentTypeArtist {
				t.Errorf("types = %v, want [artist]", types)
			}
			if limit != 5 {
				t.Errorf("limit = %d, want 5", limit)
			}
			return []section.Hit{{
				Item:  domain.CatalogItem{ID: "ar1", Type: domain.ContentTypeArtist, Name: "Nirvana"},
				Score: 0.9,
			}}, nil
		},
	}
	srv := newTestServer(search)

	body := `{"query":"nirvana","types":["artist"],"limit":5}`
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Item.ID != "ar1" {
		t.Fatalf("results = %+v, want one hit for ar1", resp.Results)
	}
}

func TestHandleSearchValidation(t *testing.T) {
	srv := newTestServer(&mockSearcher{})
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"bad json", `{`},
		{"unknown type", `{"query":"x","types":["podcast"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleSearchIndexUnavailable(t *testing.T) {
	search := &mockSearcher{
		searchFn: func(context.Context, string, []domain.ContentType, int) ([]section.Hit, error) {
			return nil, domain.ErrIndexUnavailable
		},
	}
	srv := newTestServer(search)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"x"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHandleStream(t *testing.T) {
	search := &mockSearcher{
		streamFn: func(_ context.Context, query string) (<-chan section.Section, error) {
			ch := make(chan section.Section, 3)
			ch <- section.Primary{
				Match:      domain.ContentTypeArtist,
				Item:       section.Hit{Item: domain.CatalogItem{ID: "ar1", Type: domain.ContentTypeArtist, Name: "Nirvana"}, Score: 0.9},
				Confidence: 0.9,
			}
			ch <- section.Results{Items: []section.Hit{}}
			ch <- section.Done{TotalTime: 42 * time.Millisecond}
			close(ch)
			return ch, nil
		},
	}
	srv := newTestServer(search)

	req := httptest.NewRequest(http.MethodGet, "/search/stream?q=nirvana", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	var kinds []string
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var envelope struct {
			Section string `json:"section"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &envelope); err != nil {
			t.Fatalf("bad event payload %q: %v", line, err)
		}
		kinds = append(kinds, envelope.Section)
	}
	want := []string{"primary", "results", "done"}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestHandleStreamMissingQuery(t *testing.T) {
	srv := newTestServer(&mockSearcher{})
	req := httptest.NewRequest(http.MethodGet, "/search/stream", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&mockSearcher{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestHandleHealthDegraded(t *testing.T) {
	srv := NewServer(&mockSearcher{}, &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}, "fingerprint", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
