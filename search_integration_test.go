package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func containsID(cands []Candidate, id int) bool {
	for _, c := range cands {
		if c.ID == id {
			return true
		}
	}
	return false
}

func TestBlockExclusionBidirectional(t *testing.T) {
	requireTestDB(t)

	viewer := createTestUser(t, "block_viewer@example.com")
	target := createTestUser(t, "block_target@example.com")
	defer cleanupTestData(viewer.Email, target.Email)

	createTestProfile(t, viewer.ID, TestProfileRow{DisplayName: "Viewer"})
	createTestProfile(t, target.ID, TestProfileRow{DisplayName: "Target"})

	ctx := context.Background()

	before, err := searchCandidates(ctx, db, viewer.ID, &FilterSpec{Limit: maxLimit})
	if err != nil {
		t.Fatalf("search before block: %v", err)
	}
	if !containsID(before, target.ID) {
		t.Fatal("target should be visible before blocking")
	}

	// Block through the handler so the write path is covered too
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/me/blocks/%d", target.ID), nil)
	req.Header.Set("Authorization", "Bearer "+viewer.Token)
	w := httptest.NewRecorder()
	blocksHandler(db).ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("block expected 201, got %d", w.Code)
	}

	t.Run("Blocked member invisible to blocker", func(t *testing.T) {
		results, err := searchCandidates(ctx, db, viewer.ID, &FilterSpec{Limit: maxLimit})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if containsID(results, target.ID) {
			t.Error("blocked member still visible")
		}
	})

	t.Run("Blocker invisible to blocked member", func(t *testing.T) {
		results, err := searchCandidates(ctx, db, target.ID, &FilterSpec{Limit: maxLimit})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if containsID(results, viewer.ID) {
			t.Error("blocker still visible to the member they blocked")
		}
	})

	t.Run("Exclusion holds for every filter combination", func(t *testing.T) {
		specs := []*FilterSpec{
			{Keyword: "Target", Limit: maxLimit},
			{OnlyOnline: true, Limit: maxLimit},
			{MinAge: intPtr(18), MaxAge: intPtr(99), Limit: maxLimit},
		}
		for _, spec := range specs {
			results, err := searchCandidates(ctx, db, viewer.ID, spec)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if containsID(results, target.ID) {
				t.Errorf("blocked member leaked through spec %+v", spec)
			}
		}
	})
}

func TestTriStateHasKids(t *testing.T) {
	requireTestDB(t)

	boolPtr := func(v bool) *bool { return &v }

	viewer := createTestUser(t, "kids_viewer@example.com")
	withKids := createTestUser(t, "kids_with@example.com")
	without := createTestUser(t, "kids_without@example.com")
	defer cleanupTestData(viewer.Email, withKids.Email, without.Email)

	createTestProfile(t, viewer.ID, TestProfileRow{})
	createTestProfile(t, withKids.ID, TestProfileRow{HasKids: boolPtr(true)})
	createTestProfile(t, without.ID, TestProfileRow{HasKids: boolPtr(false)})

	ctx := context.Background()

	t.Run("Unset returns candidates regardless", func(t *testing.T) {
		results, err := searchCandidates(ctx, db, viewer.ID, &FilterSpec{Limit: maxLimit})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if !containsID(results, withKids.ID) || !containsID(results, without.ID) {
			t.Error("unset has_kids must not constrain")
		}
	})

	t.Run("Explicit false excludes true", func(t *testing.T) {
		results, err := searchCandidates(ctx, db, viewer.ID, &FilterSpec{HasKids: TriFalse, Limit: maxLimit})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if containsID(results, withKids.ID) {
			t.Error("has_kids=false returned a candidate with kids")
		}
		if !containsID(results, without.ID) {
			t.Error("has_kids=false dropped a candidate without kids")
		}
	})

	t.Run("Explicit true excludes false", func(t *testing.T) {
		results, err := searchCandidates(ctx, db, viewer.ID, &FilterSpec{HasKids: TriTrue, Limit: maxLimit})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if containsID(results, without.ID) {
			t.Error("has_kids=true returned a candidate without kids")
		}
		if !containsID(results, withKids.ID) {
			t.Error("has_kids=true dropped a candidate with kids")
		}
	})
}

func TestPaginationScenario(t *testing.T) {
	requireTestDB(t)

	viewer := createTestUser(t, "page_viewer@example.com")
	emails := []string{viewer.Email}
	defer func() { cleanupTestData(emails...) }()
	createTestProfile(t, viewer.ID, TestProfileRow{})

	// Five matching candidates: two online, three offline with staggered
	// recency, so the expected order is fully determined.
	bodyTypes := []string{"athletic", "average", "athletic", "average", "athletic"}
	var candidates []TestUser
	for i, bt := range bodyTypes {
		u := createTestUser(t, fmt.Sprintf("page_cand_%d@example.com", i))
		emails = append(emails, u.Email)
		createTestProfile(t, u.ID, TestProfileRow{DisplayName: fmt.Sprintf("Pager %d", i), BodyType: bt})
		if i < 2 {
			setLastOnline(t, u.ID, i*10) // online, freshest first
		} else {
			setLastOnline(t, u.ID, 600+i*60) // offline, staggered
		}
		candidates = append(candidates, u)
	}

	ctx := context.Background()
	spec := func(offset int) *FilterSpec {
		return &FilterSpec{BodyTypes: []string{"athletic", "average"}, Limit: 2, Offset: offset}
	}

	first, err := searchCandidates(ctx, db, viewer.ID, spec(0))
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected exactly 2 results, got %d", len(first))
	}

	t.Run("Online-first then recency", func(t *testing.T) {
		if first[0].ID != candidates[0].ID || first[1].ID != candidates[1].ID {
			t.Errorf("expected the two online members first, got %v", ids(first))
		}
		if !first[0].IsOnline || !first[1].IsOnline {
			t.Error("first page should be the online members")
		}
	})

	t.Run("Second page has no overlap", func(t *testing.T) {
		second, err := searchCandidates(ctx, db, viewer.ID, spec(2))
		if err != nil {
			t.Fatalf("second page: %v", err)
		}
		if len(second) != 2 {
			t.Fatalf("expected exactly 2 results, got %d", len(second))
		}
		for _, c := range second {
			if containsID(first, c.ID) {
				t.Errorf("candidate %d appears on both pages", c.ID)
			}
		}
	})

	t.Run("Identical calls return identical slices", func(t *testing.T) {
		again, err := searchCandidates(ctx, db, viewer.ID, spec(0))
		if err != nil {
			t.Fatalf("repeat call: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("result size changed between identical calls")
		}
		for i := range first {
			if first[i].ID != again[i].ID {
				t.Errorf("order changed between identical calls: %v vs %v", ids(first), ids(again))
			}
		}
	})
}

func TestQuickSearchScenario(t *testing.T) {
	requireTestDB(t)

	viewer := createTestUser(t, "quick_viewer@example.com")
	bioMatch := createTestUser(t, "quick_bio@example.com")
	interestMatch := createTestUser(t, "quick_interest@example.com")
	nameMatch := createTestUser(t, "quick_name@example.com")
	noMatch := createTestUser(t, "quick_none@example.com")
	blockedMatch := createTestUser(t, "quick_blocked@example.com")
	defer cleanupTestData(viewer.Email, bioMatch.Email, interestMatch.Email,
		nameMatch.Email, noMatch.Email, blockedMatch.Email)

	createTestProfile(t, viewer.ID, TestProfileRow{})
	createTestProfile(t, bioMatch.ID, TestProfileRow{Bio: "I never miss a SUNSET at the beach"})
	createTestProfile(t, interestMatch.ID, TestProfileRow{Interests: "photography, sunsets, hiking"})
	createTestProfile(t, nameMatch.ID, TestProfileRow{DisplayName: "Sunset Sam"})
	createTestProfile(t, noMatch.ID, TestProfileRow{Bio: "Early mornings only"})
	createTestProfile(t, blockedMatch.ID, TestProfileRow{Bio: "sunset chaser"})
	createBlock(t, blockedMatch.ID, viewer.ID)

	results, err := quickSearch(context.Background(), db, viewer.ID, "sunset", 0)
	if err != nil {
		t.Fatalf("quick search: %v", err)
	}

	for _, want := range []int{bioMatch.ID, interestMatch.ID, nameMatch.ID} {
		if !containsID(results, want) {
			t.Errorf("expected candidate %d in results %v", want, ids(results))
		}
	}
	if containsID(results, noMatch.ID) {
		t.Error("candidate without the keyword returned")
	}
	if containsID(results, blockedMatch.ID) {
		t.Error("blocked candidate returned by quick search")
	}
}

func TestNearbyScenario(t *testing.T) {
	requireTestDB(t)

	viewer := createTestUser(t, "near_viewer@example.com")
	candA := createTestUser(t, "near_a@example.com")
	candB := createTestUser(t, "near_b@example.com")
	defer cleanupTestData(viewer.Email, candA.Email, candB.Email)

	// Viewer in New York, A a few km away, B without coordinates
	createTestProfile(t, viewer.ID, TestProfileRow{Lat: floatPtr(40.7128), Lon: floatPtr(-74.0060)})
	createTestProfile(t, candA.ID, TestProfileRow{DisplayName: "A", Lat: floatPtr(40.7306), Lon: floatPtr(-73.9352)})
	createTestProfile(t, candB.ID, TestProfileRow{DisplayName: "B"})

	ctx := context.Background()

	t.Run("Radius filter keeps A with its distance, drops B", func(t *testing.T) {
		maxKm := 10.0
		results, err := searchCandidates(ctx, db, viewer.ID, &FilterSpec{MaxDistance: &maxKm, Limit: maxLimit})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if !containsID(results, candA.ID) {
			t.Fatal("candidate within radius missing")
		}
		if containsID(results, candB.ID) {
			t.Error("candidate without coordinates passed the radius filter")
		}
		for _, c := range results {
			if c.ID == candA.ID {
				if c.Distance == nil {
					t.Fatal("expected annotated distance")
				}
				if *c.Distance < 5 || *c.Distance > 8 {
					t.Errorf("expected a few km, got %.2f", *c.Distance)
				}
			}
		}
	})

	t.Run("Without a radius B appears with null distance", func(t *testing.T) {
		results, err := searchCandidates(ctx, db, viewer.ID, &FilterSpec{Limit: maxLimit})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if !containsID(results, candB.ID) {
			t.Fatal("coordinate-less candidate missing without a radius filter")
		}
		for _, c := range results {
			if c.ID == candB.ID && c.Distance != nil {
				t.Errorf("expected null distance, got %.2f", *c.Distance)
			}
		}
	})

	t.Run("Nearby mode sorts ascending by distance", func(t *testing.T) {
		results, err := nearbySearch(ctx, db, viewer.ID, 500, 0)
		if err != nil {
			t.Fatalf("nearby: %v", err)
		}
		var prev float64 = -1
		for _, c := range results {
			if c.Distance == nil {
				t.Fatal("nearby results must all carry a distance")
			}
			if *c.Distance < prev {
				t.Errorf("distances not ascending: %v then %v", prev, *c.Distance)
			}
			prev = *c.Distance
		}
	})
}

func TestNearbyShortCircuit(t *testing.T) {
	requireTestDB(t)

	viewer := createTestUser(t, "near_nowhere@example.com")
	other := createTestUser(t, "near_somewhere@example.com")
	defer cleanupTestData(viewer.Email, other.Email)

	// Viewer has a profile but no coordinates
	createTestProfile(t, viewer.ID, TestProfileRow{})
	createTestProfile(t, other.ID, TestProfileRow{Lat: floatPtr(40.7), Lon: floatPtr(-74.0)})

	results, err := nearbySearch(context.Background(), db, viewer.ID, 50, 0)
	if err != nil {
		t.Fatalf("expected soft short-circuit, got error: %v", err)
	}
	if results == nil {
		t.Fatal("expected an empty slice, not nil")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", ids(results))
	}
}

func TestSuggestionSearch(t *testing.T) {
	requireTestDB(t)

	viewer := createTestUser(t, "sugg_viewer@example.com")
	match := createTestUser(t, "sugg_match@example.com")
	tooOld := createTestUser(t, "sugg_old@example.com")
	defer cleanupTestData(viewer.Email, match.Email, tooOld.Email)

	createTestProfile(t, viewer.ID, TestProfileRow{})
	createTestProfile(t, match.ID, TestProfileRow{Age: 30, BodyType: "athletic"})
	createTestProfile(t, tooOld.ID, TestProfileRow{Age: 55, BodyType: "athletic"})

	// Store preferences through the handler so the collaborator surface is
	// covered end to end.
	body := `{"min_age":25,"max_age":40,"body_types":["athletic"]}`
	req := httptest.NewRequest(http.MethodPut, "/me/preferences", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+viewer.Token)
	w := httptest.NewRecorder()
	mePreferencesHandler(db).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save preferences expected 200, got %d", w.Code)
	}

	results, err := suggestionSearch(context.Background(), db, viewer.ID, 0)
	if err != nil {
		t.Fatalf("suggestion search: %v", err)
	}
	if !containsID(results, match.ID) {
		t.Error("preferred candidate missing from suggestions")
	}
	if containsID(results, tooOld.ID) {
		t.Error("candidate outside the preferred age range suggested")
	}
}

func TestSearchHandlerErrorMapping(t *testing.T) {
	requireTestDB(t)

	viewer := createTestUser(t, "handler_viewer@example.com")
	defer cleanupTestData(viewer.Email)
	createTestProfile(t, viewer.ID, TestProfileRow{})

	t.Run("Validation failure answers 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search?limit=-1", nil)
		req.Header.Set("Authorization", "Bearer "+viewer.Token)
		w := httptest.NewRecorder()
		searchHandler(db).ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Unauthorized without a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		w := httptest.NewRecorder()
		searchHandler(db).ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Valid request answers 200 with a result envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search?min_age=18", nil)
		req.Header.Set("Authorization", "Bearer "+viewer.Token)
		w := httptest.NewRecorder()
		searchHandler(db).ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp struct {
			Results []Candidate `json:"results"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Results == nil {
			t.Error("results must be a list, not null")
		}
	})
}
