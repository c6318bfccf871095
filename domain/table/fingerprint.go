package table

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"fdrtidy/domain/core"
)

// Fingerprint hashes a table's column names, kinds and cells. Tables with the
// same contents hash equally whatever their flavor.
func Fingerprint(t Table) core.Hash {
	h := sha256.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	names := t.Names()
	kinds := t.Kinds()
	for j := range names {
		writeString(names[j])
		writeString(string(kinds[j]))
	}

	for i := 0; i < t.NumRows(); i++ {
		for _, v := range t.Row(i).Values() {
			if v.NA {
				h.Write([]byte{0})
				continue
			}
			switch v.Kind {
			case KindNumber:
				h.Write([]byte{1})
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.Num))
				h.Write(buf[:])
			case KindBool:
				if v.Bool {
					h.Write([]byte{2, 1})
				} else {
					h.Write([]byte{2, 0})
				}
			default:
				h.Write([]byte{3})
				writeString(v.Str)
			}
		}
	}

	return core.Hash(hex.EncodeToString(h.Sum(nil)))
}
