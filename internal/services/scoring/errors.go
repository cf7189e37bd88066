package scoring

import "errors"

var (
	ErrMerchantNotFound    = errors.New("merchant not found")
	ErrNoDataForPlatform   = errors.New("no data found for platform")
	ErrNoEligiblePlatforms = errors.New("merchant not found on any platform or no data")
)

// IsNoData reports whether err is the recoverable "platform has no
// data" outcome. Multi-platform aggregation skips these; every other
// error aborts the whole request.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoDataForPlatform)
}
