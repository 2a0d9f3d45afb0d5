// Package permission implements the two-level admin authorization model.
// Level 1 admins implicitly hold every permission over every school; Level 2
// admins hold only explicitly granted permission and school pairs.
package permission

import (
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/datatypes"
)

// Permission identifies a grantable admin capability.
type Permission string

// Permission catalog.
const (
	PermSchoolManagement       Permission = "school_management"
	PermContentManagement      Permission = "content_management"
	PermMessaging              Permission = "messaging"
	PermSubscriptionManagement Permission = "subscription_management"
	PermAnalytics              Permission = "analytics"
	PermBillingManagement      Permission = "billing_management"
	PermAdminManagement        Permission = "admin_management"
	PermSystemSettings         Permission = "system_settings"
)

// all lists every known permission.
var all = []Permission{
	PermSchoolManagement,
	PermContentManagement,
	PermMessaging,
	PermSubscriptionManagement,
	PermAnalytics,
	PermBillingManagement,
	PermAdminManagement,
	PermSystemSettings,
}

// restricted lists permissions that only Level 1 admins may hold. A Level 2
// profile is denied these even when they appear in its permission set.
var restricted = map[Permission]struct{}{
	PermBillingManagement: {},
	PermAdminManagement:   {},
	PermSystemSettings:    {},
}

// All returns the permission catalog in stable order.
func All() []Permission {
	out := make([]Permission, len(all))
	copy(out, all)
	return out
}

// IsKnown reports whether the permission is in the catalog.
func IsKnown(p Permission) bool {
	for _, known := range all {
		if known == p {
			return true
		}
	}
	return false
}

// IsRestricted reports whether the permission is Level-1-only.
func IsRestricted(p Permission) bool {
	_, ok := restricted[p]
	return ok
}

// Grantable returns the permissions a Level 2 admin may be granted.
func Grantable() []Permission {
	out := make([]Permission, 0, len(all))
	for _, p := range all {
		if !IsRestricted(p) {
			out = append(out, p)
		}
	}
	return out
}

// Normalize deduplicates and sorts a permission list, dropping empty entries.
func Normalize(perms []Permission) []Permission {
	seen := make(map[Permission]struct{}, len(perms))
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks that every permission is known. When level2 is true it
// also rejects restricted permissions.
func Validate(perms []Permission, level2 bool) error {
	for _, p := range perms {
		if !IsKnown(p) {
			return fmt.Errorf("unknown permission: %s", p)
		}
		if level2 && IsRestricted(p) {
			return fmt.Errorf("permission %s cannot be granted to a level 2 admin", p)
		}
	}
	return nil
}

// Marshal encodes a permission list as a JSON column value.
func Marshal(perms []Permission) (datatypes.JSON, error) {
	raw, err := json.Marshal(Normalize(perms))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// Parse decodes a JSON column value into a permission list. Malformed data
// parses as an empty list so permission checks fail closed.
func Parse(raw datatypes.JSON) []Permission {
	if len(raw) == 0 {
		return nil
	}
	var perms []Permission
	if errUnmarshal := json.Unmarshal(raw, &perms); errUnmarshal != nil {
		return nil
	}
	return Normalize(perms)
}

// ParseSchoolIDs decodes a JSON column value into a school ID list.
func ParseSchoolIDs(raw datatypes.JSON) []uint64 {
	if len(raw) == 0 {
		return nil
	}
	var ids []uint64
	if errUnmarshal := json.Unmarshal(raw, &ids); errUnmarshal != nil {
		return nil
	}
	return ids
}

// MarshalSchoolIDs encodes a school ID list as a JSON column value.
func MarshalSchoolIDs(ids []uint64) (datatypes.JSON, error) {
	if ids == nil {
		ids = []uint64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
