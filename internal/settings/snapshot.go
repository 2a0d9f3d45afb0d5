package settings

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// snapshot holds the in-memory platform setting values.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

// globalSnapshot stores the latest snapshot atomically.
var globalSnapshot atomic.Value // stores snapshot

// init seeds the global snapshot.
func init() {
	globalSnapshot.Store(snapshot{values: map[string]json.RawMessage{}})
}

// Store replaces the in-memory snapshot of DB-backed settings.
func Store(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if v == nil {
			next[key] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		next[key] = copied
	}

	globalSnapshot.Store(snapshot{
		updatedAt: updatedAt.UTC(),
		values:    next,
	})
}

// UpdatedAt returns the last update timestamp of the snapshot.
func UpdatedAt() time.Time {
	return load().updatedAt
}

// Value returns a copy of the raw setting value for a key.
func Value(key string) (json.RawMessage, bool) {
	snap := load()
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	val, ok := snap.values[key]
	if !ok {
		return nil, false
	}
	if val == nil {
		return nil, true
	}
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied, true
}

// SiteName returns the platform display name.
func SiteName() string {
	return stringValue(SiteNameKey, DefaultSiteName)
}

// PublicBaseURL returns the public base URL used in signup links.
func PublicBaseURL() string {
	return stringValue(PublicBaseURLKey, DefaultPublicBaseURL)
}

// InviteValidityDays returns the invitation validity window in days.
func InviteValidityDays() int {
	return intValue(InviteValidityDaysKey, DefaultInviteValidityDays)
}

// AutomatedMessagingEnabled reports whether the automated messaging loop
// should run.
func AutomatedMessagingEnabled() bool {
	return boolValue(AutomatedMessagingKey, DefaultAutomatedMessaging)
}

// RenewalReminderDays returns the renewal reminder lead time in days.
func RenewalReminderDays() int {
	return intValue(RenewalReminderDaysKey, DefaultRenewalReminderDays)
}

// stringValue decodes a string setting with a fallback.
func stringValue(key, fallback string) string {
	raw, ok := Value(key)
	if !ok || len(raw) == 0 {
		return fallback
	}
	var out string
	if errUnmarshal := json.Unmarshal(raw, &out); errUnmarshal != nil {
		return fallback
	}
	if strings.TrimSpace(out) == "" {
		return fallback
	}
	return out
}

// intValue decodes an integer setting with a fallback.
func intValue(key string, fallback int) int {
	raw, ok := Value(key)
	if !ok || len(raw) == 0 {
		return fallback
	}
	var out int
	if errUnmarshal := json.Unmarshal(raw, &out); errUnmarshal != nil {
		return fallback
	}
	if out <= 0 {
		return fallback
	}
	return out
}

// boolValue decodes a boolean setting with a fallback.
func boolValue(key string, fallback bool) bool {
	raw, ok := Value(key)
	if !ok || len(raw) == 0 {
		return fallback
	}
	var out bool
	if errUnmarshal := json.Unmarshal(raw, &out); errUnmarshal != nil {
		return fallback
	}
	return out
}

// load returns the current snapshot with safe defaults.
func load() snapshot {
	v := globalSnapshot.Load()
	snap, ok := v.(snapshot)
	if !ok {
		return snapshot{values: map[string]json.RawMessage{}}
	}
	if snap.values == nil {
		return snapshot{updatedAt: snap.updatedAt, values: map[string]json.RawMessage{}}
	}
	return snap
}
