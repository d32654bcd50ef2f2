package advisory

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bibbank/loanrisk/internal/domain/port"
)

// resultCache remembers successful opinions keyed by a digest of the input,
// so re-assessing an unchanged application does not hit the service again.
type resultCache struct {
	c *gocache.Cache
}

// newResultCache returns nil when ttl is not positive, which disables caching.
func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		return nil
	}
	return &resultCache{c: gocache.New(ttl, 2*ttl)}
}

func (rc *resultCache) get(key string) (port.AdvisoryResult, bool) {
	if rc == nil || key == "" {
		return port.AdvisoryResult{}, false
	}
	v, ok := rc.c.Get(key)
	if !ok {
		return port.AdvisoryResult{}, false
	}
	res, ok := v.(port.AdvisoryResult)
	return res, ok
}

func (rc *resultCache) set(key string, res port.AdvisoryResult) {
	if rc == nil || key == "" {
		return
	}
	rc.c.SetDefault(key, res)
}

// cacheKey digests everything the prompt is built from. It returns "" when
// the input cannot be encoded.
func cacheKey(model string, in port.AdvisoryInput) string {
	b, err := json.Marshal(struct {
		Model string
		In    port.AdvisoryInput
	}{model, in})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
