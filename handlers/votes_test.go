// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storyvote/storyvote/auth"
	"github.com/storyvote/storyvote/models"
	"github.com/storyvote/storyvote/notify"
	"github.com/storyvote/storyvote/store"
	"github.com/storyvote/storyvote/testutil"
)

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(store.NewStore(db), cfg, notify.NewLocalNotifier())

	testutil.CreateTestRoom(t, db, "demo", "")
	roundID := testutil.StartTestRound(t, db, "demo", "Login flow")
	alice := auth.BuildVoterKey("alice")

	tests := []struct {
		name           string
		slug           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.CastVoteResponse)
	}{
		{
			name:           "first cast",
			slug:           "demo",
			requestBody:    models.CastVoteRequest{VoterKey: alice, CardIndex: 4},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.CastVoteResponse) {
				if resp.RoundID != roundID {
					t.Errorf("round_id = %s, want %s", resp.RoundID, roundID)
				}
				if resp.SelectedVoteIndex == nil || *resp.SelectedVoteIndex != 4 {
					t.Errorf("selected_vote_index = %v, want 4", resp.SelectedVoteIndex)
				}
				if resp.Votes[4] != 1 {
					t.Errorf("votes[4] = %d, want 1", resp.Votes[4])
				}
			},
		},
		{
			name:           "same card withdraws",
			slug:           "demo",
			requestBody:    models.CastVoteRequest{VoterKey: alice, CardIndex: 4},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.CastVoteResponse) {
				if resp.SelectedVoteIndex != nil {
					t.Errorf("selected_vote_index = %v, want null", resp.SelectedVoteIndex)
				}
				if resp.Votes[4] != 0 {
					t.Errorf("votes[4] = %d, want 0 after withdrawal", resp.Votes[4])
				}
			},
		},
		{
			name:           "card index too high",
			slug:           "demo",
			requestBody:    models.CastVoteRequest{VoterKey: alice, CardIndex: 8},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative card index",
			slug:           "demo",
			requestBody:    models.CastVoteRequest{VoterKey: alice, CardIndex: -1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing voter key",
			slug:           "demo",
			requestBody:    models.CastVoteRequest{CardIndex: 3},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown room has no active round",
			slug:           "missing",
			requestBody:    models.CastVoteRequest{VoterKey: alice, CardIndex: 3},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/rooms/"+tt.slug+"/votes", tt.requestBody, nil)
			req.SetPathValue("slug", tt.slug)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK && tt.checkResponse != nil {
				var resp models.CastVoteResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestCastVote_NoActiveRound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(store.NewStore(db), cfg, notify.NewLocalNotifier())

	testutil.CreateTestRoom(t, db, "demo", "")

	req := testutil.MakeRequest("POST", "/rooms/demo/votes", models.CastVoteRequest{
		VoterKey:  auth.BuildVoterKey("alice"),
		CardIndex: 2,
	}, nil)
	req.SetPathValue("slug", "demo")
	w := httptest.NewRecorder()

	handler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}
