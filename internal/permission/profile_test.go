package permission

import "testing"

func level1Profile() *Profile {
	return NewProfile(1, 1, true, nil, nil)
}

func TestLevel1HasEveryPermission(t *testing.T) {
	p := level1Profile()
	for _, perm := range All() {
		for _, schoolID := range []uint64{0, 1, 42} {
			if !p.HasPermission(perm, schoolID) {
				t.Fatalf("level 1 denied %s school=%d", perm, schoolID)
			}
		}
	}
	if !p.HasSchoolAccess(99) {
		t.Fatalf("level 1 denied school access")
	}
}

func TestLevel2RestrictedPermissionsAlwaysDenied(t *testing.T) {
	// Restricted permissions erroneously present in the granted set must
	// still be denied for a Level 2 profile.
	p := NewProfile(2, 2, true, []Permission{
		PermBillingManagement,
		PermAdminManagement,
		PermSystemSettings,
		PermMessaging,
	}, []uint64{1})

	for _, perm := range []Permission{PermBillingManagement, PermAdminManagement, PermSystemSettings} {
		if p.HasPermission(perm, 0) {
			t.Fatalf("level 2 allowed restricted permission %s", perm)
		}
		if p.HasPermission(perm, 1) {
			t.Fatalf("level 2 allowed restricted permission %s with school scope", perm)
		}
	}
	if !p.HasPermission(PermMessaging, 1) {
		t.Fatalf("level 2 denied granted unrestricted permission")
	}
}

func TestLevel2ScopedChecks(t *testing.T) {
	p := NewProfile(3, 2, true, []Permission{PermMessaging}, []uint64{1})

	if !p.HasPermission(PermMessaging, 1) {
		t.Fatalf("expected messaging allowed for scoped school")
	}
	if p.HasPermission(PermMessaging, 2) {
		t.Fatalf("expected messaging denied outside school scope")
	}
	if p.HasPermission(PermBillingManagement, 1) {
		t.Fatalf("expected billing_management denied for level 2")
	}
	if !p.HasPermission(PermMessaging, 0) {
		t.Fatalf("expected unscoped check to pass on granted permission")
	}
	if !p.HasSchoolAccess(1) || p.HasSchoolAccess(2) {
		t.Fatalf("school access did not follow scope")
	}
}

func TestInactiveAndNilProfilesDeny(t *testing.T) {
	inactive := NewProfile(4, 1, false, nil, nil)
	if inactive.HasPermission(PermMessaging, 0) || inactive.HasSchoolAccess(1) {
		t.Fatalf("inactive profile granted access")
	}

	var missing *Profile
	if missing.HasPermission(PermMessaging, 0) || missing.HasSchoolAccess(1) {
		t.Fatalf("nil profile granted access")
	}

	unknownLevel := NewProfile(5, 0, true, []Permission{PermMessaging}, []uint64{1})
	if unknownLevel.HasPermission(PermMessaging, 1) {
		t.Fatalf("unknown level granted access")
	}
}

func TestValidateRejectsRestrictedForLevel2(t *testing.T) {
	if errValidate := Validate([]Permission{PermMessaging, PermContentManagement}, true); errValidate != nil {
		t.Fatalf("unexpected error for grantable permissions: %v", errValidate)
	}
	if errValidate := Validate([]Permission{PermBillingManagement}, true); errValidate == nil {
		t.Fatalf("expected error granting restricted permission to level 2")
	}
	if errValidate := Validate([]Permission{PermBillingManagement}, false); errValidate != nil {
		t.Fatalf("unexpected error for level 1 restricted grant: %v", errValidate)
	}
	if errValidate := Validate([]Permission{"no_such_permission"}, false); errValidate == nil {
		t.Fatalf("expected error for unknown permission")
	}
}

func TestNormalizeDeduplicatesAndSorts(t *testing.T) {
	perms := Normalize([]Permission{PermMessaging, "", PermAnalytics, PermMessaging})
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}
	if perms[0] != PermAnalytics || perms[1] != PermMessaging {
		t.Fatalf("unexpected order: %v", perms)
	}
}
