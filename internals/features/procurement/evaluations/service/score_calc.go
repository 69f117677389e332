// file: internals/features/procurement/evaluations/service/score_calc.go
package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	model "procureku_backend/internals/features/procurement/evaluations/model"
)

/* =========================================================
   Kalkulator skor — pure & deterministik.
   Input identik harus selalu menghasilkan output identik
   (kebutuhan reproduksi audit). Satu fungsi per metode.
========================================================= */

type CalcResult struct {
	Overall float64
	// Incomplete: total bobot 0 pada weighted (hasil dipaksa 0,
	// submission ditandai belum lengkap alih-alih division fault).
	Incomplete bool
}

// CalcOverall: dispatch per metode penilaian.
func CalcOverall(
	method model.ScoringMethod,
	criteria model.CriterionList,
	scores map[string]float64,
	maxScore float64,
) CalcResult {
	switch method {
	case model.ScoringMethodWeighted:
		return calcWeighted(criteria, scores, maxScore)
	case model.ScoringMethodPoints:
		return calcPoints(criteria, scores, maxScore)
	case model.ScoringMethodPassFail:
		return calcPassFail(criteria, scores, maxScore)
	case model.ScoringMethodRanking:
		return calcMeanRank(criteria, scores)
	case model.ScoringMethodHybrid:
		return calcHybrid(criteria, scores, maxScore)
	default:
		return CalcResult{}
	}
}

// weighted_scoring: Σ(score_i × weight_i) / Σ(weight_i), clamp [0, maxScore].
// Bobot tidak harus berjumlah 100; dinormalisasi di sini.
func calcWeighted(criteria model.CriterionList, scores map[string]float64, maxScore float64) CalcResult {
	var sumWeighted, sumWeight float64
	for _, cr := range criteria {
		sumWeight += cr.Weight
		if s, ok := scores[cr.CriterionID]; ok {
			sumWeighted += s * cr.Weight
		}
	}
	if sumWeight == 0 {
		return CalcResult{Overall: 0, Incomplete: true}
	}
	return CalcResult{Overall: clamp(sumWeighted/sumWeight, 0, maxScore)}
}

// points_system: jumlah poin mentah, cap di maxScore.
func calcPoints(criteria model.CriterionList, scores map[string]float64, maxScore float64) CalcResult {
	var sum float64
	for _, cr := range criteria {
		if s, ok := scores[cr.CriterionID]; ok {
			sum += s
		}
	}
	return CalcResult{Overall: clamp(sum, 0, maxScore)}
}

// pass_fail: maxScore jika semua kriteria required lulus (nilai > 0), else 0.
func calcPassFail(criteria model.CriterionList, scores map[string]float64, maxScore float64) CalcResult {
	for _, cr := range criteria {
		if !cr.Required {
			continue
		}
		if s, ok := scores[cr.CriterionID]; !ok || s <= 0 {
			return CalcResult{Overall: 0}
		}
	}
	return CalcResult{Overall: maxScore}
}

// ranking: di level satu evaluator nilainya = rata-rata rank per kriteria
// (lebih kecil lebih baik). Urutan antar-submission dihitung terpisah
// di RankByMeanRank.
func calcMeanRank(criteria model.CriterionList, scores map[string]float64) CalcResult {
	var sum float64
	var n int
	for _, cr := range criteria {
		if s, ok := scores[cr.CriterionID]; ok {
			sum += s
			n++
		}
	}
	if n == 0 {
		return CalcResult{Overall: 0, Incomplete: true}
	}
	return CalcResult{Overall: sum / float64(n)}
}

// hybrid: kriteria dikelompokkan per group; skor group = weighted average
// anggotanya, overall = rata-rata group berbobot total bobot group.
// Kriteria tanpa group digabung ke group "" sendiri.
func calcHybrid(criteria model.CriterionList, scores map[string]float64, maxScore float64) CalcResult {
	type groupAcc struct {
		sumWeighted float64
		sumWeight   float64
	}
	groups := map[string]*groupAcc{}
	order := []string{} // iterasi deterministik

	for _, cr := range criteria {
		key := ""
		if cr.Group != nil {
			key = *cr.Group
		}
		acc, ok := groups[key]
		if !ok {
			acc = &groupAcc{}
			groups[key] = acc
			order = append(order, key)
		}
		acc.sumWeight += cr.Weight
		if s, ok := scores[cr.CriterionID]; ok {
			acc.sumWeighted += s * cr.Weight
		}
	}

	var total, totalWeight float64
	for _, key := range order {
		acc := groups[key]
		if acc.sumWeight == 0 {
			continue
		}
		groupScore := clamp(acc.sumWeighted/acc.sumWeight, 0, maxScore)
		total += groupScore * acc.sumWeight
		totalWeight += acc.sumWeight
	}
	if totalWeight == 0 {
		return CalcResult{Overall: 0, Incomplete: true}
	}
	return CalcResult{Overall: clamp(total/totalWeight, 0, maxScore)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

/* =========================================================
   Agregasi ranking antar-submission (metode ranking).
========================================================= */

// RankCandidate: satu submission beserta data tie-break.
type RankCandidate struct {
	SubmissionID uuid.UUID
	SupplierID   uuid.UUID
	SupplierName string
	MeanRank     float64 // rata-rata rank lintas evaluator & kriteria
	Price        float64
	SubmittedAt  time.Time
}

// RankByMeanRank: mean rank terendah menang; seri → harga naik,
// lalu waktu submit naik. Hasil deterministik.
func RankByMeanRank(candidates []RankCandidate) []RankCandidate {
	out := make([]RankCandidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MeanRank != out[j].MeanRank {
			return out[i].MeanRank < out[j].MeanRank
		}
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// RankByScoreDesc: untuk metode selain ranking — skor final turun,
// seri → harga naik, lalu waktu submit naik.
func RankByScoreDesc(candidates []RankCandidate, finals map[string]float64) []RankCandidate {
	out := make([]RankCandidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		si := finals[out[i].SubmissionID.String()]
		sj := finals[out[j].SubmissionID.String()]
		if si != sj {
			return si > sj
		}
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}
