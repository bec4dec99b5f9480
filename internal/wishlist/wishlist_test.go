package wishlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"storefront-client/internal/bus"
	"storefront-client/internal/gateway"
	"storefront-client/internal/localstore"
	"storefront-client/internal/model"
)

type fakeRemote struct {
	toggles  []model.Ident
	outcome  gateway.ToggleOutcome
	entries  []gateway.WishlistEntry
	products map[model.Ident]*model.Product
}

func (f *fakeRemote) ProductByID(ctx context.Context, s model.Session, id model.Ident) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, errors.New("no such product")
}

func (f *fakeRemote) WishlistEntries(ctx context.Context, s model.Session) ([]gateway.WishlistEntry, error) {
	return f.entries, nil
}

func (f *fakeRemote) ToggleFavorite(ctx context.Context, s model.Session, id model.Ident) (gateway.ToggleOutcome, error) {
	f.toggles = append(f.toggles, id)
	return f.outcome, nil
}

func (f *fakeRemote) WishlistCount(ctx context.Context, s model.Session) int {
	return len(f.entries)
}

func newService(t *testing.T, remote *fakeRemote) (*Service, *localstore.Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := localstore.OpenInMemory(bus.New(), log)
	return NewService(store, remote, log), store
}

var (
	guest = model.Session{}
	auth  = model.Session{Token: "t"}
)

func TestToggleGuestAddsAndRemoves(t *testing.T) {
	remote := &fakeRemote{products: map[model.Ident]*model.Product{
		"w1": {ID: "w1", Price: model.Num(3)},
	}}
	svc, store := newService(t, remote)

	status, err := svc.Toggle(context.Background(), guest, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if status != localstore.ToggleAdded {
		t.Errorf("first toggle = %q, want added", status)
	}
	items := store.WishlistItems()
	if len(items) != 1 || items[0].Product == nil {
		t.Error("guest toggle should store a hydrated line")
	}

	status, _ = svc.Toggle(context.Background(), guest, "w1")
	if status != localstore.ToggleRemoved {
		t.Errorf("second toggle = %q, want removed", status)
	}
	if len(remote.toggles) != 0 {
		t.Errorf("guest toggles hit remote: %v", remote.toggles)
	}
}

func TestToggleGuestHydrationFailureStoresBareID(t *testing.T) {
	remote := &fakeRemote{}
	svc, store := newService(t, remote)

	status, err := svc.Toggle(context.Background(), guest, "w9")
	if err != nil {
		t.Fatal(err)
	}
	if status != localstore.ToggleAdded {
		t.Errorf("toggle = %q, want added", status)
	}
	items := store.WishlistItems()
	if len(items) != 1 || items[0].ProductID() != "w9" {
		t.Errorf("stored items = %+v, want bare w9", items)
	}
}

func TestToggleAuthenticatedDropsLocalCopy(t *testing.T) {
	remote := &fakeRemote{outcome: gateway.ToggleOutcomeRemoved}
	svc, store := newService(t, remote)

	store.ToggleWishlistItem(model.CartLine{ID: "w1", Quantity: model.Num(1)})

	status, err := svc.Toggle(context.Background(), auth, "w1")
	if err != nil {
		t.Fatal(err)
	}
	if status != localstore.ToggleRemoved {
		t.Errorf("toggle = %q, want removed", status)
	}
	if len(remote.toggles) != 1 || remote.toggles[0] != "w1" {
		t.Errorf("remote toggles = %v, want [w1]", remote.toggles)
	}
	if got := store.WishlistCount(); got != 0 {
		t.Errorf("local copy not dropped, count = %d", got)
	}
}

func TestCountRouting(t *testing.T) {
	remote := &fakeRemote{entries: []gateway.WishlistEntry{{ID: "a"}, {ID: "b"}}}
	svc, store := newService(t, remote)

	store.ToggleWishlistItem(model.CartLine{ID: "w1", Quantity: model.Num(1)})

	if got := svc.Count(context.Background(), guest); got != 1 {
		t.Errorf("guest Count() = %d, want 1", got)
	}
	if got := svc.Count(context.Background(), auth); got != 2 {
		t.Errorf("auth Count() = %d, want 2", got)
	}
}

func TestLinesAuthenticatedConvertsEntries(t *testing.T) {
	remote := &fakeRemote{entries: []gateway.WishlistEntry{
		{Product: &model.Product{ID: "w1", Price: model.Num(2)}},
		{ProductID: "w2"},
	}}
	svc, _ := newService(t, remote)

	lines, err := svc.Lines(context.Background(), auth)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].ProductID() != "w1" || lines[1].ProductID() != "w2" {
		t.Errorf("line ids = %q, %q", lines[0].ProductID(), lines[1].ProductID())
	}
}

func TestContains(t *testing.T) {
	remote := &fakeRemote{entries: []gateway.WishlistEntry{{ID: "w2"}}}
	svc, store := newService(t, remote)

	store.ToggleWishlistItem(model.CartLine{ID: "w1", Quantity: model.Num(1)})

	if !svc.Contains(context.Background(), guest, "w1") {
		t.Error("guest Contains(w1) = false, want true")
	}
	if svc.Contains(context.Background(), guest, "w2") {
		t.Error("guest Contains(w2) = true, want false")
	}
	if !svc.Contains(context.Background(), auth, "w2") {
		t.Error("auth Contains(w2) = false, want true")
	}
}
