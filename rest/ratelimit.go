package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

const (
	limiterCacheSize = 4096
	requestsPerSec   = 10
	requestBurst     = 20
)

// rateLimitMiddleware throttles each client separately. Limiters live in an
// LRU cache so an open server does not accumulate one limiter per client
// forever; evicting an idle client's limiter just resets its allowance.
func rateLimitMiddleware() gin.HandlerFunc {
	cache, err := lru.New(limiterCacheSize)
	if err != nil {
		panic(err)
	}

	limiterFor := func(key string) *rate.Limiter {
		if v, ok := cache.Get(key); ok {
			return v.(*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Limit(requestsPerSec), requestBurst)
		cache.Add(key, l)
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, appError{
				Code:    http.StatusTooManyRequests,
				Message: "too many requests",
			})
			return
		}
		c.Next()
	}
}
