// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storyvote/storyvote/models"
	"github.com/storyvote/storyvote/notify"
	"github.com/storyvote/storyvote/store"
	"github.com/storyvote/storyvote/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(store.NewStore(db), cfg, notify.NewLocalNotifier())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(store.NewStore(db), cfg, notify.NewLocalNotifier())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "storyvote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestCardsEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(store.NewStore(db), cfg, notify.NewLocalNotifier())

	req := httptest.NewRequest("GET", "/cards", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var cards []string
	testutil.AssertJSON(t, w, &cards)
	if len(cards) != models.CardCount {
		t.Errorf("Expected %d cards, got %d", models.CardCount, len(cards))
	}
	if cards[0] != "1" || cards[len(cards)-1] != "∞" {
		t.Errorf("Unexpected deck: %v", cards)
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(store.NewStore(db), cfg, notify.NewLocalNotifier())

	// Test that routes respond (handler is invoked)
	// Note: Some routes return 404 when data doesn't exist, which is valid handler behavior
	testCases := []struct {
		method string
		path   string
	}{
		// Health and root
		{"GET", "/health"},
		{"GET", "/"},

		// Public room routes
		{"POST", "/rooms"},
		{"GET", "/rooms/test-room"},
		{"GET", "/rooms/test-room/history"},
		{"POST", "/rooms/test-room/votes"},
		{"POST", "/rooms/test-room/presence"},

		// Admin routes (these return auth errors without a session cookie)
		{"GET", "/rooms/test-room/admin/session"},
		{"POST", "/rooms/test-room/admin/session"},
		{"DELETE", "/rooms/test-room/admin/session"},
		{"POST", "/rooms/test-room/admin/round/start"},
		{"POST", "/rooms/test-room/admin/round/end"},
		{"POST", "/rooms/test-room/admin/reset"},
		{"POST", "/rooms/test-room/admin/story"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Route should be matched (not 405 Method Not Allowed for these specific routes)
			// 400, 401, 404, 409 are all valid responses depending on handler logic
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(store.NewStore(db), cfg, notify.NewLocalNotifier())

	// Test that unsupported methods on defined routes return 405
	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},                     // Only GET is defined
		{"DELETE", "/rooms/test-room/votes"},    // Only POST is defined
		{"PUT", "/rooms/test-room/admin/reset"}, // Only POST is defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	testutil.CreateTestRoom(t, db, "routed-room", "")

	mux := NewRouter(store.NewStore(db), cfg, notify.NewLocalNotifier())

	// Test that {slug} extracts correctly: an existing room returns its state
	req := httptest.NewRequest("GET", "/rooms/routed-room", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for existing room, got %d. Body: %s", w.Code, w.Body.String())
	}
}
