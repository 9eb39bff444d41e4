package leaf

// Tag patterns and canonical write tags of the externally tagged leaf
// kinds.
const (
	NDArrayPattern = "tag:skyarc.dev:core/ndarray-1.*"
	NDArrayTag     = "tag:skyarc.dev:core/ndarray-1.0.0"

	QuantityPattern = "tag:skyarc.dev:core/quantity-1.*"
	QuantityTag     = "tag:skyarc.dev:core/quantity-1.0.0"

	TimePattern = "tag:skyarc.dev:core/time-1.*"
	TimeTag     = "tag:skyarc.dev:core/time-1.0.0"

	WCSPattern = "tag:skyarc.dev:core/wcs-1.*"
	WCSTag     = "tag:skyarc.dev:core/wcs-1.0.0"

	TablePattern = "tag:skyarc.dev:core/table-1.*"
	TableTag     = "tag:skyarc.dev:core/table-1.0.0"
)
