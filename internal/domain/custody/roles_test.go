package custody

import "testing"

func TestPermissionTable(t *testing.T) {
	tests := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleSystemAdmin, CapDelete, true},
		{RoleSystemAdmin, CapViewAllLogs, true},
		{RoleEvidenceManager, CapSeal, true},
		{RoleEvidenceManager, CapDelete, false},
		{RoleInvestigator, CapCreate, true},
		{RoleInvestigator, CapTransfer, true},
		{RoleInvestigator, CapVerify, false},
		{RoleInvestigator, CapSeal, false},
		{RoleInvestigator, CapViewAllLogs, false},
		{RoleForensicAnalyst, CapView, true},
		{RoleForensicAnalyst, CapVerify, true},
		{RoleForensicAnalyst, CapCreate, false},
		{RoleForensicAnalyst, CapTransfer, false},
		{RoleAuditor, CapVerify, true},
		{RoleAuditor, CapViewAllLogs, true},
		{RoleAuditor, CapCreate, false},
		{Role("Janitor"), CapView, false},
		{Role(""), CapView, false},
	}
	for _, tt := range tests {
		if got := HasCapability(tt.role, tt.capability); got != tt.want {
			t.Errorf("HasCapability(%q, %q) = %v, want %v", tt.role, tt.capability, got, tt.want)
		}
	}
}

func TestCapabilitiesForReturnsFreshSlice(t *testing.T) {
	caps := CapabilitiesFor(RoleAuditor)
	if len(caps) != 3 {
		t.Fatalf("auditor capabilities = %d, want 3", len(caps))
	}
	caps[0] = Capability("forged")
	if HasCapability(RoleAuditor, Capability("forged")) {
		t.Error("mutating the returned slice altered the table")
	}
	if CapabilitiesFor(RoleAuditor)[0] == Capability("forged") {
		t.Error("returned slice is shared between calls")
	}
}

func TestCustodyEligible(t *testing.T) {
	eligible := []Role{RoleEvidenceManager, RoleInvestigator, RoleForensicAnalyst}
	for _, role := range eligible {
		if !CustodyEligible(role) {
			t.Errorf("%s should be custody eligible", role)
		}
	}
	for _, role := range []Role{RoleSystemAdmin, RoleAuditor, Role("Janitor")} {
		if CustodyEligible(role) {
			t.Errorf("%s should not be custody eligible", role)
		}
	}
}
