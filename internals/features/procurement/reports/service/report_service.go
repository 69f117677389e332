// file: internals/features/procurement/reports/service/report_service.go
package service

import (
	"log"

	"github.com/google/uuid"
)

// Generator adalah collaborator pembuat laporan evaluasi final.
// Finalisasi tidak menunggu hasilnya; laporan dibuat asinkron.
type Generator interface {
	EnqueueFinalReport(evaluationID uuid.UUID)
}

// AsyncGenerator: enqueue via goroutine. Implementasi produksi memanggil
// report service eksternal; di sini cukup serahkan ke submit func.
type AsyncGenerator struct {
	submit func(evaluationID uuid.UUID)
}

func NewAsyncGenerator(submit func(evaluationID uuid.UUID)) *AsyncGenerator {
	if submit == nil {
		submit = func(id uuid.UUID) {
			log.Printf("[ReportGenerator] generate final report eval=%s", id)
		}
	}
	return &AsyncGenerator{submit: submit}
}

func (g *AsyncGenerator) EnqueueFinalReport(evaluationID uuid.UUID) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ReportGenerator] WARNING panic saat generate eval=%s: %v", evaluationID, r)
			}
		}()
		g.submit(evaluationID)
	}()
}
