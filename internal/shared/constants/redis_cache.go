package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs, centralized.
// Pattern: campusevents:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // event listings
	TTL_DYNAMIC_MEDIUM    = 10 * time.Minute // user registrations
	TTL_DYNAMIC_SHORT     = 5 * time.Minute  // waitlist stats
	TTL_REALTIME_MEDIUM   = 1 * time.Minute  // event details, they carry live capacity
	TTL_REALTIME_SHORT    = 30 * time.Second // waitlist positions
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "campusevents"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"         // + :page:X:limit:Y:status:Z
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

const (
	TTL_EVENT_LIST   = TTL_SEMI_STATIC_SHORT
	TTL_EVENT_DETAIL = TTL_REALTIME_MEDIUM
)

// ================== WAITLIST MODULE ==================

const (
	CACHE_KEY_WAITLIST_STATS    = CACHE_PREFIX + ":waitlist:stats:event:"    // + event-id
	CACHE_KEY_WAITLIST_POSITION = CACHE_PREFIX + ":waitlist:position:event:" // + event-id:user:user-id
)

const (
	TTL_WAITLIST_STATS    = TTL_DYNAMIC_SHORT
	TTL_WAITLIST_POSITION = TTL_REALTIME_SHORT
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENT_ALL    = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id + *
	PATTERN_INVALIDATE_WAITLIST     = CACHE_PREFIX + ":waitlist:*:event:"   // + event-id + *
)

// ================== HELPER FUNCTIONS ==================

func BuildEventListKey(page, limit int, status string) string {
	if status != "" {
		return fmt.Sprintf("%s:page:%d:limit:%d:status:%s", CACHE_KEY_EVENTS_LIST, page, limit, status)
	}
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_EVENTS_LIST, page, limit)
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildWaitlistStatsKey(eventID string) string {
	return CACHE_KEY_WAITLIST_STATS + eventID
}

func BuildWaitlistPositionKey(eventID, userID string) string {
	return CACHE_KEY_WAITLIST_POSITION + eventID + ":user:" + userID
}
