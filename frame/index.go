package frame

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// invertedIndex maps column name -> value key -> bitmap of row positions.
// Frames are immutable, so the index is built once at construction and is
// read without locking afterwards.
type invertedIndex struct {
	postings map[string]map[string]*roaring.Bitmap
}

func buildIndex(cols []Column, data [][]Value) *invertedIndex {
	ix := &invertedIndex{
		postings: make(map[string]map[string]*roaring.Bitmap, len(cols)),
	}
	for j := range cols {
		ix.postings[cols[j].Name] = make(map[string]*roaring.Bitmap)
	}
	for i := range data {
		for j := range cols {
			valueMap := ix.postings[cols[j].Name]
			key := indexKey(data[i][j])
			bm, ok := valueMap[key]
			if !ok {
				bm = roaring.New()
				valueMap[key] = bm
			}
			bm.Add(uint32(i))
		}
	}
	return ix
}

// indexKey maps numerically equal Int and Float values to one posting key,
// so indexed equality coerces the way compareEqual does.
func indexKey(v Value) string {
	if v.Kind == KindFloat {
		f := v.F64
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return Int(int64(f)).Key()
		}
	}
	return v.Key()
}

// compile answers a filter set from the posting lists. ok is false when the
// set contains an operator the index cannot serve; callers then fall back
// to scanning.
//
// The index answers either the whole set or none of it: a single filter it
// cannot serve sends the entire set to the scan, so conjunction stays
// order-independent and both paths agree on every filter's semantics.
func (ix *invertedIndex) compile(fs *FilterSet) (*roaring.Bitmap, bool) {
	for i := range fs.Filters {
		switch fs.Filters[i].Operator {
		case OpEqual:
		case OpIn:
			if _, ok := fs.Filters[i].Value.AsArray(); !ok {
				return nil, false
			}
		default:
			return nil, false
		}
	}

	var result *roaring.Bitmap

	for i := range fs.Filters {
		flt := &fs.Filters[i]

		var bm *roaring.Bitmap
		switch flt.Operator {
		case OpEqual:
			bm = ix.lookup(flt.Key, flt.Value)
		case OpIn:
			arr, _ := flt.Value.AsArray()
			bm = roaring.New()
			for _, v := range arr {
				if p := ix.lookup(flt.Key, v); p != nil {
					bm.Or(p)
				}
			}
		}

		if bm == nil {
			// No postings: nothing matches.
			return roaring.New(), true
		}
		if result == nil {
			// Posting lists are shared; never mutate them.
			result = bm.Clone()
		} else {
			result.And(bm)
		}
		if result.IsEmpty() {
			return result, true
		}
	}

	if result == nil {
		return roaring.New(), true
	}
	return result, true
}

func (ix *invertedIndex) lookup(col string, v Value) *roaring.Bitmap {
	if v.Kind == KindFloat && math.IsNaN(v.F64) {
		// NaN equals nothing, same as compareEqual.
		return nil
	}

	valueMap, ok := ix.postings[col]
	if !ok {
		return nil
	}
	return valueMap[indexKey(v)]
}
