// file: internals/features/procurement/evaluations/service/authorizer.go
package service

import (
	"procureku_backend/internals/constants"
)

// Authorizer: capability check yang dipanggil engine sekali per operasi.
// Dipusatkan di sini (bukan tersebar per route) supaya test engine bisa
// stub otorisasi tanpa layer HTTP. Keanggotaan evaluator aktif tetap
// dicek terpisah terhadap data evaluasi.
type Authorizer interface {
	CanManage(role string) bool        // create / update / start / cancel
	CanScore(role string) bool         // submit skor (plus cek keanggotaan)
	CanBuildConsensus(role string) bool
	CanFinalize(role string) bool
	CanReadAllScores(role string) bool // override visibilitas blind evaluation
}

// RoleAuthorizer: implementasi berbasis role claim JWT.
type RoleAuthorizer struct{}

func (RoleAuthorizer) CanManage(role string) bool {
	return containsRole(constants.ManagementRoles, role)
}

func (RoleAuthorizer) CanScore(role string) bool {
	return containsRole(constants.ScoringRoles, role)
}

func (RoleAuthorizer) CanBuildConsensus(role string) bool {
	return containsRole(constants.ManagementRoles, role)
}

func (RoleAuthorizer) CanFinalize(role string) bool {
	return containsRole(constants.ManagementRoles, role)
}

func (RoleAuthorizer) CanReadAllScores(role string) bool {
	return containsRole(constants.EvaluationReadAllRoles, role)
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
