package domain

import "strconv"

// Tag is one tagged MinHash component: the permutation index and the
// minimum value observed under that permutation.
// Values from different indices are never compared against each other.
type Tag struct {
	Index int
	Value uint64
}

// String renders the tag as "<index>:<value>".
func (t Tag) String() string {
	return strconv.Itoa(t.Index) + ":" + strconv.FormatUint(t.Value, 10)
}

// Fingerprint is a MinHash sketch. Component i always has Index == i.
type Fingerprint []Tag

// Values returns the raw component values in index order.
func (f Fingerprint) Values() []uint64 {
	values := make([]uint64, len(f))
	for i, tag := range f {
		values[i] = tag.Value
	}
	return values
}

// IndexStats summarises the contents of a candidate index.
type IndexStats struct {
	// Tags is the number of distinct tagged components.
	Tags int

	// Postings is the total number of (tag, document) entries.
	Postings int

	// Documents is the number of distinct documents indexed.
	Documents int

	// LargestBucket is the length of the longest document list.
	LargestBucket int
}
