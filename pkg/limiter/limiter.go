package limiter

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// LimiterIface a rate limiter keyed by something derived from the request.
type LimiterIface interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) LimiterIface
}

// BucketRule token bucket parameters for one key.
type BucketRule struct {
	// Key route prefix the bucket applies to
	Key string
	// FillInterval interval between token refills
	FillInterval time.Duration
	// Capacity bucket capacity
	Capacity int64
	// Quantum tokens added per refill
	Quantum int64
}

// Limiter shared bucket storage.
type Limiter struct {
	limiterBuckets map[string]*ratelimit.Bucket
}

// MethodLimiter limits by URI prefix.
type MethodLimiter struct {
	*Limiter
}

func NewMethodLimiter() LimiterIface {
	return MethodLimiter{
		Limiter: &Limiter{limiterBuckets: make(map[string]*ratelimit.Bucket)},
	}
}

// Key matches the longest configured prefix of the request path.
func (l MethodLimiter) Key(c *gin.Context) string {
	uri := c.Request.RequestURI
	var match string
	for key := range l.limiterBuckets {
		if len(key) <= len(uri) && uri[:len(key)] == key && len(key) > len(match) {
			match = key
		}
	}
	return match
}

func (l MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	bucket, ok := l.limiterBuckets[key]
	return bucket, ok
}

func (l MethodLimiter) AddBuckets(rules ...BucketRule) LimiterIface {
	for _, rule := range rules {
		if _, ok := l.limiterBuckets[rule.Key]; !ok {
			l.limiterBuckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		}
	}
	return l
}
