package cart

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"jewelstore/internal/domain"
)

func TestSessionsIssueDistinctTokens(t *testing.T) {
	sessions := NewSessions(NewMemStore(), log.New(io.Discard, "", 0))

	a, err := sessions.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := sessions.Issue(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a == b {
		t.Fatal("two sessions got the same token")
	}
}

func TestSessionsReviveAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	logger := log.New(io.Discard, "", 0)

	first := NewSessions(store, logger)
	token, err := first.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	engine := first.Get(ctx, token)
	if _, err := engine.Add(ctx, domain.Product{ID: "p1", Name: "Gold Band", PriceCents: 12500}, 2, nil, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	// a fresh registry over the same store stands in for a restarted process
	second := NewSessions(store, logger)
	revived := second.Get(ctx, token)
	if got := revived.Count(); got != 2 {
		t.Fatalf("revived count = %d, want 2", got)
	}
	lines := revived.Lines()
	if len(lines) != 1 || lines[0].ProductID != "p1" {
		t.Fatalf("revived lines = %+v", lines)
	}
}

func TestSessionsRejectNeverIssuedTokens(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewMemStore(), log.New(io.Discard, "", 0))

	for i := 0; i < 100; i++ {
		if engine := sessions.Get(ctx, fmt.Sprintf("never-issued-%d", i)); engine != nil {
			t.Fatalf("made-up token %d resolved to a live engine", i)
		}
	}
	sessions.mu.Lock()
	n := len(sessions.entries)
	sessions.mu.Unlock()
	if n != 0 {
		t.Fatalf("registry grew to %d entries from made-up tokens", n)
	}
}

func TestSessionsIssuedEmptyCartSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	logger := log.New(io.Discard, "", 0)

	first := NewSessions(store, logger)
	token, err := first.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// no mutations before the restart; the token must still resolve
	second := NewSessions(store, logger)
	engine := second.Get(ctx, token)
	if engine == nil {
		t.Fatal("issued token did not survive the restart")
	}
	if got := engine.Count(); got != 0 {
		t.Fatalf("revived cart count = %d, want 0", got)
	}
}

func TestSessionsGetIsStablePerToken(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewMemStore(), log.New(io.Discard, "", 0))

	token, err := sessions.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if sessions.Get(ctx, token) != sessions.Get(ctx, token) {
		t.Fatal("same token resolved to different engines")
	}
}
