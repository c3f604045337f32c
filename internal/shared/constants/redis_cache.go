package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: studyroom:{module}:{operation}:{identifier}

const CACHE_PREFIX = "studyroom"

// Static catalog data: buildings and classrooms rarely change
const (
	TTL_CATALOG = 1 * time.Hour
)

// Seat availability changes on every booking transition
const (
	TTL_SEAT_MAP   = 2 * time.Minute
	TTL_STATISTICS = 5 * time.Minute
)

const (
	CACHE_KEY_BUILDINGS  = CACHE_PREFIX + ":catalog:buildings"
	CACHE_KEY_CLASSROOMS = CACHE_PREFIX + ":catalog:classrooms:building:" // + building-id
	CACHE_KEY_SEAT_MAP   = CACHE_PREFIX + ":seats:map:classroom:"         // + classroom-id:date:window
	CACHE_KEY_STATISTICS = CACHE_PREFIX + ":admin:statistics"
)

// ClassroomsKey builds the per-building classroom list cache key
func ClassroomsKey(buildingID string) string {
	return CACHE_KEY_CLASSROOMS + buildingID
}

// SeatMapKey builds the per-classroom seat map cache key for one queried window
func SeatMapKey(classroomID string, start, end time.Time) string {
	return fmt.Sprintf("%s%s:%d:%d", CACHE_KEY_SEAT_MAP, classroomID, start.Unix(), end.Unix())
}

// SeatMapPattern matches every cached seat map for one classroom
func SeatMapPattern(classroomID string) string {
	return CACHE_KEY_SEAT_MAP + classroomID + ":*"
}
