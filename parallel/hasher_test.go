package parallel

import "testing"

func TestHasherOrderIndependent(t *testing.T) {
	const n = 100
	forward := NewUint16Hasher(n)
	for i := 0; i < n; i++ {
		forward.MustPutUint16(i, uint16(i*7))
	}
	backward := NewUint16Hasher(n)
	for i := n - 1; i >= 0; i-- {
		backward.MustPutUint16(i, uint16(i*7))
	}
	concurrent := NewUint16Hasher(n)
	ForEach(n, 8, func(i int) {
		concurrent.MustPutUint16(i, uint16(i*7))
	})

	want := forward.Sum()
	if got := backward.Sum(); got != want {
		t.Errorf("backward digest %x, want %x", got, want)
	}
	if got := concurrent.Sum(); got != want {
		t.Errorf("concurrent digest %x, want %x", got, want)
	}
}

func TestHasherDistinguishesValues(t *testing.T) {
	a := NewUint16Hasher(3)
	b := NewUint16Hasher(3)
	for i, v := range []uint16{1, 2, 3} {
		a.MustPutUint16(i, v)
	}
	for i, v := range []uint16{1, 3, 2} {
		b.MustPutUint16(i, v)
	}
	if a.Sum() == b.Sum() {
		t.Error("different sequences gave the same digest")
	}
}

func TestHasherDuplicateWritePanics(t *testing.T) {
	h := NewUint16Hasher(40)
	h.MustPutUint16(35, 1)
	defer func() {
		if recover() == nil {
			t.Error("duplicate write did not panic")
		}
	}()
	h.MustPutUint16(35, 2)
}
