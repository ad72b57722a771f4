package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pack-mod-manager/mods"
)

func TestFetchMetadata(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("ids")
		gotAgent = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode([]Metadata{
			{RemoteID: "111", Title: "Better Sieges", Owner: "u1", FileName: "better_sieges.pack"},
		})
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL, UserAgent: "test-agent", HTTPClient: server.Client()}

	items, err := client.FetchMetadata([]string{"111", "222"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotQuery != "111,222" {
		t.Errorf("Expected batched ids, got %q", gotQuery)
	}
	if gotAgent != "test-agent" {
		t.Errorf("Expected the configured user agent, got %q", gotAgent)
	}
	if len(items) != 1 || items[0].Title != "Better Sieges" {
		t.Errorf("Expected the decoded record, got %v", items)
	}

	t.Run("empty batch skips the network", func(t *testing.T) {
		items, err := client.FetchMetadata(nil)
		if err != nil || items != nil {
			t.Errorf("Expected nothing to happen, got %v, %v", items, err)
		}
	})
}

func TestFetchMetadataServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := &Client{BaseURL: server.URL, UserAgent: "test-agent", HTTPClient: server.Client()}
	if _, err := client.FetchMetadata([]string{"111"}); err == nil {
		t.Error("Expected an error for a failing server")
	}
}

func TestDispatcherRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]Metadata{{RemoteID: "111", Title: "A"}})
	}))
	defer server.Close()

	d := NewDispatcher(&Client{BaseURL: server.URL, UserAgent: "test-agent", HTTPClient: server.Client()})

	result := <-d.Request([]string{"111"})
	if result.Err != nil {
		t.Fatalf("Unexpected error: %v", result.Err)
	}
	if len(result.Items) != 1 || result.Items[0].RemoteID != "111" {
		t.Errorf("Expected the fetched record, got %v", result.Items)
	}

	t.Run("unread handle does not block", func(t *testing.T) {
		// Buffered channel: the goroutine must finish even if nobody reads.
		_ = d.Request([]string{"111"})
	})
}

func TestMerge(t *testing.T) {
	registry := mods.NewRegistry("warhammer_3")
	registry.Mods["a.pack"] = &mods.Mod{ID: "a.pack", Store: mods.Steam("111")}
	registry.Mods["local.pack"] = &mods.Mod{ID: "local.pack", Name: "Local"}

	Merge(registry, []Metadata{
		{RemoteID: "111", Title: "Better Sieges", Owner: "u1", OwnerName: "Author", FileName: "better_sieges.pack", FileSize: 42, TimeCreated: 10, TimeUpdated: 20},
		{RemoteID: "999", Title: "Unmatched"},
	})

	a := registry.Mods["a.pack"]
	if a.Name != "Better Sieges" || a.CreatorName != "Author" || a.FileSize != 42 {
		t.Errorf("Expected metadata applied, got %+v", a)
	}
	if a.TimeCreated != 10 || a.TimeUpdated != 20 {
		t.Errorf("Expected timestamps applied, got %+v", a)
	}
	if registry.Mods["local.pack"].Name != "Local" {
		t.Errorf("Expected store-less mods untouched, got %+v", registry.Mods["local.pack"])
	}
}
