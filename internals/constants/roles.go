package constants

// Role utama pada platform procurement
const (
	RoleOwner              = "owner"
	RoleAdmin              = "admin"
	RoleProcurementOfficer = "procurement_officer"
	RoleEvaluator          = "evaluator"
)

// ManagementRoles: boleh membuat / memulai / membatalkan evaluasi
var ManagementRoles = []string{RoleOwner, RoleAdmin, RoleProcurementOfficer}

// EvaluationReadAllRoles: boleh melihat seluruh skor pada blind evaluation
var EvaluationReadAllRoles = []string{RoleOwner, RoleAdmin, RoleProcurementOfficer}

// ScoringRoles: boleh submit skor (tetap dicek keanggotaan evaluator aktif)
var ScoringRoles = []string{RoleEvaluator, RoleProcurementOfficer, RoleAdmin, RoleOwner}
