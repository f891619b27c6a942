package hash

// salts separating unigram and bigram feature spaces
const (
	UnigramSalt uint32 = 0x9E3779B9
	BigramSalt  uint32 = 0x85EBCA6B
)

// Tokens maps a token id sequence to feature buckets in the range 0 to buckets-1.
// Positions where mask is 0 are skipped; a nil mask keeps every position.
// Each kept token gives one unigram bucket, each adjacent kept pair one bigram bucket.
func Tokens(ids []int, mask []int, buckets uint32) []uint32 {
	kept := make([]uint32, 0, len(ids))
	for i, id := range ids {
		if mask != nil && i < len(mask) && mask[i] == 0 {
			continue
		}
		kept = append(kept, uint32(id))
	}
	if len(kept) == 0 {
		return nil
	}

	out := make([]uint32, 2*len(kept)-1)
	Slice(out[:len(kept)], kept, UnigramSalt, buckets)
	for i := 1; i < len(kept); i++ {
		pair := Hash(kept[i-1], kept[i], 0xFFFFFFFF)
		out[len(kept)+i-1] = Hash(pair, BigramSalt, buckets)
	}
	return out
}
