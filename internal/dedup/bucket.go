package dedup

// Bucket classifies a multi-row patient group by how many of its rows are
// readmissions within 30 days.
type Bucket int

const (
	// ReadmitNone: no row has target 1.
	ReadmitNone Bucket = iota
	// ReadmitOne: exactly one row has target 1.
	ReadmitOne
	// ReadmitMany: more than one row has target 1.
	ReadmitMany
)

// AllBuckets lists buckets in reassembly order.
var AllBuckets = []Bucket{ReadmitOne, ReadmitMany, ReadmitNone}

func (b Bucket) String() string {
	switch b {
	case ReadmitNone:
		return "none"
	case ReadmitOne:
		return "one"
	case ReadmitMany:
		return "many"
	default:
		return "unknown"
	}
}

// Classify maps a group's readmission count to its bucket.
func Classify(readmissions int) Bucket {
	switch {
	case readmissions <= 0:
		return ReadmitNone
	case readmissions == 1:
		return ReadmitOne
	default:
		return ReadmitMany
	}
}
