package validator

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aretw0/fwlint/pkg/core"
)

// cacheKey identifies one version of a file. Any write that changes the size
// or the modification time produces a new key.
type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

func newCacheKey(path string, size int64, modTime time.Time) cacheKey {
	return cacheKey{path: path, size: size, modTime: modTime.UnixNano()}
}

// resultCache memoizes document results between runs of the same process.
type resultCache struct {
	lru *lru.Cache[cacheKey, core.Result]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[cacheKey, core.Result](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{lru: c}, nil
}

func (c *resultCache) get(k cacheKey) (core.Result, bool) {
	if c == nil {
		return core.Result{}, false
	}
	res, ok := c.lru.Get(k)
	if !ok {
		return core.Result{}, false
	}
	// Callers own the returned slice.
	res.Violations = append([]core.Violation(nil), res.Violations...)
	return res, true
}

func (c *resultCache) add(k cacheKey, res core.Result) {
	if c == nil {
		return
	}
	res.Violations = append([]core.Violation(nil), res.Violations...)
	c.lru.Add(k, res)
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

func (c *resultCache) purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
