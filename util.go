package youtube

import (
	"fmt"
	"math/rand"
	"net/url"
	"time"
)

//////////////////////////////////////////////////

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

// URL query param key used in conjuction with value returned by generateNonce.
var nonceKey = "_h"

// Generates a time-based unique string, appended to channel page requests to
// bypass caching mechanisms.
func generateNonce() string {
	return fmt.Sprintf("%016x", uniqueUint64())
}

func uniqueUint64() uint64 {
	v := uint64(time.Now().UnixMilli())
	r := uint64(rand.Uint32()) & 0x3fffff

	return (v << 22) | r
}
