package sparrow

import (
	"errors"
	"testing"
)

func TestPoolIndexerCheckoutOrder(t *testing.T) {
	p := NewPoolIndexer(3)
	for want := range 3 {
		if got := p.Checkout(); got != want {
			t.Fatalf("Checkout = %d, want %d", got, want)
		}
	}
	if got := p.Checkout(); got != NoSlot {
		t.Fatalf("exhausted Checkout = %d, want NoSlot", got)
	}
	if p.InUse() != 3 || p.Free() != 0 {
		t.Errorf("InUse/Free = %d/%d", p.InUse(), p.Free())
	}
}

func TestPoolIndexerLIFO(t *testing.T) {
	p := NewPoolIndexer(4)
	a, b := p.Checkout(), p.Checkout()
	if err := p.Checkin(a); err != nil {
		t.Fatal(err)
	}
	if err := p.Checkin(b); err != nil {
		t.Fatal(err)
	}
	if got := p.Checkout(); got != b {
		t.Errorf("Checkout = %d, want last checked in %d", got, b)
	}
}

func TestPoolIndexerStride(t *testing.T) {
	p := NewPoolIndexer(3)
	p.InitIndexes(10, 6)
	got := []int{p.Checkout(), p.Checkout(), p.Checkout()}
	want := []int{10, 16, 22}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
}

func TestPoolIndexerCheckinErrors(t *testing.T) {
	p := NewPoolIndexer(2)
	if err := p.Checkin(0); !errors.Is(err, ErrPoolOverflow) || !errors.Is(err, ErrInvalidSequencing) {
		t.Errorf("checkin into full pool: err = %v", err)
	}
	p.Checkout()
	if err := p.Checkin(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative checkin: err = %v", err)
	}
	if p.InUse() != 1 {
		t.Errorf("rejected checkin changed InUse to %d", p.InUse())
	}
}

func TestPoolIndexerZeroCapacity(t *testing.T) {
	p := NewPoolIndexer(0)
	if p.Checkout() != NoSlot {
		t.Error("empty pool handed out a slot")
	}
}

func TestRegistry(t *testing.T) {
	const id = "test-registry"
	t.Cleanup(func() { UnregisterPool(id) })

	if _, err := RegisterPool("", 1, 0, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty id: err = %v", err)
	}
	if _, err := RegisterPool(id, -1, 0, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative capacity: err = %v", err)
	}

	p, err := RegisterPool(id, 2, 100, 6)
	if err != nil {
		t.Fatal(err)
	}
	if Pool(id) != p {
		t.Fatal("Pool did not return the registered indexer")
	}
	if got := AcquirePoolSlot(id); got != 100 {
		t.Errorf("first slot = %d, want 100", got)
	}
	if got := AcquirePoolSlot(id); got != 106 {
		t.Errorf("second slot = %d, want 106", got)
	}
	if got := AcquirePoolSlot(id); got != NoSlot {
		t.Errorf("exhausted slot = %d, want NoSlot", got)
	}
	if err := ReleasePoolSlot(id, 106); err != nil {
		t.Errorf("release: %v", err)
	}

	UnregisterPool(id)
	if AcquirePoolSlot(id) != NoSlot {
		t.Error("unknown pool handed out a slot")
	}
	if err := ReleasePoolSlot(id, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("release into unknown pool: err = %v", err)
	}
}

func TestQuadsFallBackWhenPoolExhausted(t *testing.T) {
	withVertexPool(t, 1)
	pooled := NewQuad("pooled", 2, 2, ColorWhite)
	private := NewQuad("private", 2, 2, ColorWhite)
	if !pooled.IsPooled() {
		t.Error("first quad should be pooled")
	}
	if private.IsPooled() {
		t.Error("second quad should use private vertices")
	}
	if len(private.Vertices()) != QuadVertexCount {
		t.Errorf("private vertices = %d", len(private.Vertices()))
	}
	pooled.Dispose()
	private.Dispose()
	if Pool(PoolVertices).InUse() != 0 {
		t.Error("slot leaked")
	}
}

func TestPrimeVertexBufferRefusedWhileInUse(t *testing.T) {
	withVertexPool(t, 2)
	q := NewQuad("q", 1, 1, ColorWhite)
	if err := PrimeVertexBuffer(4); !errors.Is(err, ErrInvalidSequencing) {
		t.Errorf("err = %v, want ErrInvalidSequencing", err)
	}
	q.Dispose()
	if err := PrimeVertexBuffer(4); err != nil {
		t.Errorf("prime after release: %v", err)
	}
}
