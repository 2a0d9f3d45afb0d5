package permission

import (
	"context"
	"errors"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotAnAdmin indicates the identity has no usable admin profile.
var ErrNotAnAdmin = errors.New("not an admin")

// Resolver answers authorization queries against stored admin rows.
type Resolver struct {
	db *gorm.DB
}

// NewResolver constructs a Resolver.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve loads the authorization profile for an admin ID. Any lookup
// failure resolves to ErrNotAnAdmin so callers fail closed. Legacy rows
// with an unknown level are provisioned to Level 1 once on first resolve;
// the provisioning write is best-effort and logged on failure.
func (r *Resolver) Resolve(ctx context.Context, adminID uint64) (*Profile, error) {
	if r == nil || r.db == nil || adminID == 0 {
		return nil, ErrNotAnAdmin
	}

	var admin models.Admin
	if errFind := r.db.WithContext(ctx).First(&admin, adminID).Error; errFind != nil {
		return nil, ErrNotAnAdmin
	}
	if !admin.Active {
		return nil, ErrNotAnAdmin
	}

	level := admin.Level
	if level == models.AdminLevelUnknown {
		level = r.provisionLegacyAdmin(ctx, &admin)
	}

	return NewProfile(admin.ID, level, admin.Active, Parse(admin.Permissions), ParseSchoolIDs(admin.SchoolIDs)), nil
}

// provisionLegacyAdmin upgrades a pre-level admin row to Level 1. Rows
// without levels predate the scoped-admin model, when every admin had full
// access, so Level 1 preserves their behavior.
func (r *Resolver) provisionLegacyAdmin(ctx context.Context, admin *models.Admin) int {
	res := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ? AND level = ?", admin.ID, models.AdminLevelUnknown).
		Updates(map[string]any{"level": models.AdminLevelFull, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		log.Warnf("provision legacy admin %d failed: %v", admin.ID, res.Error)
	}
	return models.AdminLevelFull
}

// TouchLogin records a successful login time.
func (r *Resolver) TouchLogin(ctx context.Context, adminID uint64) {
	if r == nil || r.db == nil || adminID == 0 {
		return
	}
	now := time.Now().UTC()
	if errUpdate := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", adminID).
		Update("last_login_at", now).Error; errUpdate != nil {
		log.Warnf("touch login for admin %d failed: %v", adminID, errUpdate)
	}
}
