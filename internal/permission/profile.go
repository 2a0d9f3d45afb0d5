package permission

// Profile is the resolved authorization view of an admin. The zero value
// denies everything.
type Profile struct {
	AdminID     uint64
	Level       int
	Active      bool
	Permissions map[Permission]struct{}
	SchoolIDs   map[uint64]struct{}
}

// NewProfile builds a profile from granted permission and school lists.
func NewProfile(adminID uint64, level int, active bool, perms []Permission, schoolIDs []uint64) *Profile {
	p := &Profile{
		AdminID:     adminID,
		Level:       level,
		Active:      active,
		Permissions: make(map[Permission]struct{}, len(perms)),
		SchoolIDs:   make(map[uint64]struct{}, len(schoolIDs)),
	}
	for _, perm := range perms {
		p.Permissions[perm] = struct{}{}
	}
	for _, id := range schoolIDs {
		p.SchoolIDs[id] = struct{}{}
	}
	return p
}

// HasPermission reports whether the profile may perform the action named by
// perm, optionally scoped to a school (schoolID zero means unscoped). Checks
// never error; a nil or inactive profile always denies.
func (p *Profile) HasPermission(perm Permission, schoolID uint64) bool {
	if p == nil || !p.Active {
		return false
	}
	if p.Level == 1 {
		return true
	}
	if p.Level != 2 {
		return false
	}
	// Restricted permissions are Level-1-only even when a Level 2 profile
	// erroneously carries them.
	if IsRestricted(perm) {
		return false
	}
	if _, ok := p.Permissions[perm]; !ok {
		return false
	}
	if schoolID == 0 {
		return true
	}
	_, ok := p.SchoolIDs[schoolID]
	return ok
}

// HasSchoolAccess reports whether the profile may touch the given school.
func (p *Profile) HasSchoolAccess(schoolID uint64) bool {
	if p == nil || !p.Active {
		return false
	}
	if p.Level == 1 {
		return true
	}
	if p.Level != 2 {
		return false
	}
	_, ok := p.SchoolIDs[schoolID]
	return ok
}

// PermissionList returns the granted permissions in stable order.
func (p *Profile) PermissionList() []Permission {
	if p == nil {
		return nil
	}
	out := make([]Permission, 0, len(p.Permissions))
	for perm := range p.Permissions {
		out = append(out, perm)
	}
	return Normalize(out)
}

// SchoolIDList returns the scoped school IDs in ascending order.
func (p *Profile) SchoolIDList() []uint64 {
	if p == nil {
		return nil
	}
	out := make([]uint64, 0, len(p.SchoolIDs))
	for id := range p.SchoolIDs {
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
