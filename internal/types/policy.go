package types

// ParsePolicy controls what a container parser does when a single record
// fails to parse partway through a tag.
//
// The tag formats historically disagree here: APE aborts the whole parse
// on one bad item, while ID3v2 and ASF keep whatever was decoded before
// the failure. Rather than hard-coding that divergence, every container
// parser takes the policy as an explicit parameter; the plain Parse
// entry points pass the format's documented default.
type ParsePolicy int

const (
	// ParseStrict aborts the whole container parse on the first record
	// failure and surfaces the error.
	ParseStrict ParsePolicy = iota

	// ParseLenient stops enumerating further records on failure but
	// returns the container populated with everything decoded so far,
	// recording the failure as a Warning.
	ParseLenient
)

// String returns the policy name.
func (p ParsePolicy) String() string {
	switch p {
	case ParseStrict:
		return "strict"
	case ParseLenient:
		return "lenient"
	default:
		return "unknown"
	}
}
