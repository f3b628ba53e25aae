package reports

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/tallyworks/counts_backend/config"
)

func reportCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

func reportCacheTTL() time.Duration {
	// Env: REPORT_CACHE_TTL_SECONDS (default 120s)
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

func cacheGet[T any](key string, dest *T) bool {
	if !reportCacheEnabled() {
		return false
	}
	hit, err := config.GetRedisObject(key, dest)
	if err != nil {
		log.Printf("report cache get failed key=%s: %v", key, err)
		return false
	}
	return hit
}

func cacheSet(key string, obj any) {
	if !reportCacheEnabled() {
		return
	}
	if err := config.SetRedisObject(key, obj, reportCacheTTL()); err != nil {
		log.Printf("report cache set failed key=%s: %v", key, err)
	}
}

// InvalidateSeasonCache drops the cached season reports after a merge.
func InvalidateSeasonCache() {
	if !reportCacheEnabled() {
		return
	}
	if err := config.RemoveRedisKey(employeeSeasonCacheKey, zoneSeasonCacheKey); err != nil {
		log.Printf("report cache invalidate failed: %v", err)
	}
}
