package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/baltotest/freight-api/internal/domain/entity"
)

// newTestIndex points a real client at an httptest server that mimics the
// endpoints LoadIndex calls.
func newTestIndex(t *testing.T, h http.HandlerFunc) *LoadIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatal(err)
	}
	return NewLoadIndex(es, "loads")
}

func TestIndexSendsDocument(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotDoc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	l := entity.NewLoad("b1", "c1", nil)
	l.ID = "load-1"
	l.OriginAddress = "Newark, NJ"
	l.PickupDate = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	if err := x.Index(context.Background(), l); err != nil {
		t.Fatalf("index: %v", err)
	}
	if gotPath != "PUT /loads/_doc/load-1" {
		t.Fatalf("request = %s", gotPath)
	}
	if gotDoc["origin_address"] != "Newark, NJ" || gotDoc["status"] != "PENDING" {
		t.Fatalf("doc = %v", gotDoc)
	}
}

func TestSearchReturnsIDs(t *testing.T) {
	var query map[string]any
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &query)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"a"},{"_id":"b"}]}}`))
	})

	ids, err := x.Search(context.Background(), "newark", 5)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ids, ",") != "a,b" {
		t.Fatalf("ids = %v", ids)
	}
	if query["size"] != float64(5) {
		t.Fatalf("size = %v", query["size"])
	}
}

func TestRemoveIgnoresMissing(t *testing.T) {
	x := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	if err := x.Remove(context.Background(), "gone"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
