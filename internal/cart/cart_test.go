package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"storefront-client/internal/bus"
	"storefront-client/internal/localstore"
	"storefront-client/internal/model"
)

type remoteCall struct {
	op     string
	id     model.Ident
	packID model.Ident
	qty    int
}

type fakeRemote struct {
	calls    []remoteCall
	products map[model.Ident]*model.Product
	lines    []model.CartLine
}

func (f *fakeRemote) ProductByID(ctx context.Context, s model.Session, id model.Ident) (*model.Product, error) {
	f.calls = append(f.calls, remoteCall{op: "product", id: id})
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, errors.New("no such product")
}

func (f *fakeRemote) CartLines(ctx context.Context, s model.Session) ([]model.CartLine, error) {
	return f.lines, nil
}

func (f *fakeRemote) AddCartItem(ctx context.Context, s model.Session, id, packID model.Ident) error {
	f.calls = append(f.calls, remoteCall{op: "add", id: id, packID: packID})
	return nil
}

func (f *fakeRemote) SetCartQuantity(ctx context.Context, s model.Session, id, packID model.Ident, qty int) error {
	f.calls = append(f.calls, remoteCall{op: "qty", id: id, packID: packID, qty: qty})
	return nil
}

func (f *fakeRemote) RemoveCartItem(ctx context.Context, s model.Session, id, packID model.Ident) error {
	f.calls = append(f.calls, remoteCall{op: "remove", id: id, packID: packID})
	return nil
}

func (f *fakeRemote) ClearCart(ctx context.Context, s model.Session) error {
	f.calls = append(f.calls, remoteCall{op: "clear"})
	return nil
}

func (f *fakeRemote) CartCount(ctx context.Context, s model.Session) int {
	return len(f.lines)
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

func TestAddAuthenticatedMultiUnit(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newService(t, remote)

	if err := svc.Add(context.Background(), auth, "p1", "k2", 3); err != nil {
		t.Fatal(err)
	}

	want := []remoteCall{
		{op: "add", id: "p1", packID: "k2"},
		{op: "qty", id: "p1", packID: "k2", qty: 3},
	}
	if len(remote.calls) != len(want) {
		t.Fatalf("calls = %+v, want %+v", remote.calls, want)
	}
	for i := range want {
		if remote.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, remote.calls[i], want[i])
		}
	}
}

func TestAddAuthenticatedSingleUnitSkipsQuantityWrite(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newService(t, remote)

	svc.Add(context.Background(), auth, "p1", "k2", 1)

	if len(remote.calls) != 1 || remote.calls[0].op != "add" {
		t.Errorf("calls = %+v, want single add", remote.calls)
	}
}

func TestAddGuestHydratesAndStoresLocally(t *testing.T) {
	remote := &fakeRemote{products: map[model.Ident]*model.Product{
		"p1": {ID: "p1", Price: model.Num(5)},
	}}
	svc, store := newService(t, remote)

	if err := svc.Add(context.Background(), guest, "p1", "k2", 2); err != nil {
		t.Fatal(err)
	}

	items := store.CartItems()
	if len(items) != 1 {
		t.Fatalf("got %d local items, want 1", len(items))
	}
	if items[0].Product == nil || items[0].Product.ID != "p1" {
		t.Error("stored line not hydrated with product")
	}
	if items[0].LineQuantity() != 2 {
		t.Errorf("quantity = %d, want 2", items[0].LineQuantity())
	}
	for _, c := range remote.calls {
		if c.op == "add" || c.op == "qty" {
			t.Errorf("guest add must not hit the remote cart, got %+v", c)
		}
	}
}

func TestAddGuestClampsToAvailability(t *testing.T) {
	remote := &fakeRemote{products: map[model.Ident]*model.Product{
		"p1": {ID: "p1", Price: model.Num(5), AvailableQuantity: model.Num(3)},
	}}
	svc, store := newService(t, remote)

	if err := svc.Add(context.Background(), guest, "p1", "", 10); err != nil {
		t.Fatal(err)
	}

	if got := store.CartItems()[0].LineQuantity(); got != 3 {
		t.Errorf("quantity = %d, want clamped 3", got)
	}
}

func TestAddGuestOutOfStockRejected(t *testing.T) {
	remote := &fakeRemote{products: map[model.Ident]*model.Product{
		"p1": {ID: "p1", MaxOrderQuantity: model.Num(0)},
	}}
	svc, store := newService(t, remote)

	err := svc.Add(context.Background(), guest, "p1", "", 1)
	if !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("error = %v, want invalid request", err)
	}
	if got := len(store.CartItems()); got != 0 {
		t.Errorf("cart has %d items, want 0", got)
	}
}

func TestCountRouting(t *testing.T) {
	remote := &fakeRemote{lines: []model.CartLine{{}, {}}}
	svc, store := newService(t, remote)

	store.UpsertCartItem(model.CartLine{
		Product:  &model.Product{ID: "p1"},
		Quantity: model.Num(5),
	})

	if got := svc.Count(context.Background(), guest); got != 5 {
		t.Errorf("guest Count() = %d, want quantity sum 5", got)
	}
	if got := svc.Count(context.Background(), auth); got != 2 {
		t.Errorf("auth Count() = %d, want entry count 2", got)
	}
}

func TestLinesGuestHydration(t *testing.T) {
	remote := &fakeRemote{products: map[model.Ident]*model.Product{
		"p1": {ID: "p1", Price: model.Num(4)},
	}}
	svc, store := newService(t, remote)

	store.SetCartItems([]model.CartLine{{ID: "p1", Quantity: model.Num(2)}})

	lines, err := svc.Lines(context.Background(), guest)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Product == nil {
		t.Fatal("line not hydrated")
	}

	// Hydration result is written back so the lookup happens once.
	if got := store.CartItems()[0].Product; got == nil {
		t.Error("hydrated product not persisted")
	}
}

func TestLinesGuestHydrationFailureKeepsLine(t *testing.T) {
	remote := &fakeRemote{}
	svc, store := newService(t, remote)

	store.SetCartItems([]model.CartLine{{ID: "p1", Quantity: model.Num(2)}})

	lines, err := svc.Lines(context.Background(), guest)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
}

func TestComputeTotals(t *testing.T) {
	lines := []model.CartLine{
		{
			Product:  &model.Product{RegularPrice: model.Num(10), SalePrice: model.Num(8)},
			Quantity: model.Num(2),
		},
		{
			Product:  &model.Product{Price: model.Num(4)},
			Quantity: model.Num(1),
		},
	}

	got := ComputeTotals(lines)
	if got.Subtotal != 2000 {
		t.Errorf("Subtotal = %d, want 2000", got.Subtotal)
	}
	if got.Discount != 400 {
		t.Errorf("Discount = %d, want 400", got.Discount)
	}
	if got.Tax != 100 {
		t.Errorf("Tax = %d, want 100 (5%%)", got.Tax)
	}
	if got.Total != 2100 {
		t.Errorf("Total = %d, want 2100", got.Total)
	}
}

func TestClearRouting(t *testing.T) {
	remote := &fakeRemote{}
	svc, store := newService(t, remote)
	store.UpsertCartItem(model.CartLine{Product: &model.Product{ID: "p1"}})

	svc.Clear(context.Background(), guest)
	if got := len(store.CartItems()); got != 0 {
		t.Errorf("guest clear left %d items", got)
	}
	if len(remote.calls) != 0 {
		t.Errorf("guest clear hit remote: %+v", remote.calls)
	}

	svc.Clear(context.Background(), auth)
	if len(remote.calls) != 1 || remote.calls[0].op != "clear" {
		t.Errorf("auth clear calls = %+v", remote.calls)
	}
}
