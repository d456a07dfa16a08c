package custody

import "sort"

type Role string

const (
	RoleSystemAdmin     Role = "System Admin"
	RoleEvidenceManager Role = "Evidence Manager"
	RoleInvestigator    Role = "Investigator"
	RoleForensicAnalyst Role = "Forensic Analyst"
	RoleAuditor         Role = "Auditor"
)

type Capability string

const (
	CapView        Capability = "view"
	CapCreate      Capability = "create"
	CapTransfer    Capability = "transfer"
	CapVerify      Capability = "verify"
	CapSeal        Capability = "seal"
	CapDelete      Capability = "delete"
	CapViewAllLogs Capability = "view_all_logs"
)

// permissionTable is the static role -> capability mapping. Investigator has
// no verify (field staff do not self-verify); Forensic Analyst and Auditor
// are oversight roles with no create/transfer.
var permissionTable = map[Role]map[Capability]bool{
	RoleSystemAdmin: {
		CapView: true, CapCreate: true, CapTransfer: true, CapVerify: true,
		CapSeal: true, CapDelete: true, CapViewAllLogs: true,
	},
	RoleEvidenceManager: {
		CapView: true, CapCreate: true, CapTransfer: true, CapVerify: true,
		CapSeal: true, CapViewAllLogs: true,
	},
	RoleInvestigator: {
		CapView: true, CapCreate: true, CapTransfer: true,
	},
	RoleForensicAnalyst: {
		CapView: true, CapVerify: true,
	},
	RoleAuditor: {
		CapView: true, CapVerify: true, CapViewAllLogs: true,
	},
}

// HasCapability reports whether role grants capability. Unknown roles have no
// capabilities.
func HasCapability(role Role, capability Capability) bool {
	return permissionTable[role][capability]
}

// CapabilitiesFor returns the sorted capability set for a role. The result is
// a fresh slice; callers cannot mutate the table through it.
func CapabilitiesFor(role Role) []Capability {
	caps := permissionTable[role]
	out := make([]Capability, 0, len(caps))
	for c := range caps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// KnownRole reports whether role is one of the five defined roles.
func KnownRole(role Role) bool {
	_, ok := permissionTable[role]
	return ok
}

// CustodyEligible reports whether a role may hold custody of evidence.
// System Admin and Auditor observe the chain but never appear in it.
func CustodyEligible(role Role) bool {
	switch role {
	case RoleSystemAdmin, RoleAuditor:
		return false
	default:
		return KnownRole(role)
	}
}
