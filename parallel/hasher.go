package parallel

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"sync"
)

// Uint16Hasher computes a sha256 digest over a fixed length sequence of uint16 values.
// Values may be put concurrently and in any order; the digest only depends on the
// sequence. Blocks of 30 values are consumed as soon as they are complete.
type Uint16Hasher struct {
	mut  sync.Mutex
	sha  hash.Hash
	ate  int
	data [][64]byte
}

// NewUint16Hasher creates a hasher for n values
func NewUint16Hasher(n int) *Uint16Hasher {
	return &Uint16Hasher{
		sha:  sha256.New(),
		data: make([][64]byte, (29+n)/30),
	}
}

// ready reports whether the next block has all of its 30 marks set.
// Marks for positions 0..14 live in bytes 0..1, for 15..29 in bytes 62..63.
func (h *Uint16Hasher) ready() bool {
	if h.ate >= len(h.data) {
		return false
	}
	block := &h.data[h.ate]
	return block[0]|128 == 0xff && block[1] == 0xff &&
		block[62]|128 == 0xff && block[63] == 0xff
}

func (h *Uint16Hasher) eat() {
	h.sha.Write(h.data[h.ate][:])
	h.ate++
}

// MustPutUint16 stores value at position n. It panics on a duplicate write or on a write
// into a block that was already digested.
func (h *Uint16Hasher) MustPutUint16(n int, value uint16) {
	block := n / 30
	position := n % 30
	offset := 2 + position*2

	h.mut.Lock()
	defer h.mut.Unlock()

	if block < h.ate {
		panic("already consumed block")
	}

	var markBytes []byte
	var pos uint
	if position < 15 {
		markBytes = h.data[block][0:2]
		pos = uint(position)
	} else {
		markBytes = h.data[block][62:64]
		pos = uint(position - 15)
	}
	mark := binary.BigEndian.Uint16(markBytes)
	if mark&(1<<pos) != 0 {
		panic("duplicate write")
	}
	binary.BigEndian.PutUint16(markBytes, mark|1<<pos)

	h.data[block][offset] = byte(value)
	h.data[block][offset+1] = byte(value >> 8)

	for h.ready() {
		h.eat()
	}
}

// Sum digests the remaining blocks and returns the digest. The hasher is spent afterwards.
func (h *Uint16Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	if h.data == nil {
		return
	}
	for h.ate < len(h.data) {
		h.eat()
	}
	copy(ret[:], h.sha.Sum(nil))
	h.data = nil
	return
}
