package scheduler

import (
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	service "hostelku_backend/internals/features/finance/billings/service"
)

// StartMonthlyBillingScheduler menjalankan dua tugas latar:
//   - tanggal 1: generate invoice periode berjalan
//   - tiap hari: sweep invoice lewat jatuh tempo → overdue
//
// Nonaktifkan dengan BILLING_SCHEDULER=off (mis. saat run batch manual).
func StartMonthlyBillingScheduler(db *gorm.DB) {
	if os.Getenv("BILLING_SCHEDULER") == "off" {
		log.Println("[BILLING] scheduler dimatikan via env")
		return
	}

	svc := service.NewBillingService(db)

	go func() {
		for {
			now := time.Now()

			if now.Day() == 1 {
				log.Printf("[BILLING] Menjalankan generate bulanan %d-%02d...", now.Year(), int(now.Month()))
				if res, err := svc.GenerateMonthlyInvoices(int(now.Month()), now.Year(), nil); err != nil {
					log.Printf("[BILLING ERROR] generate gagal: %v", err)
				} else if res.Failed > 0 {
					log.Printf("[BILLING] selesai dengan %d kegagalan: %v", res.Failed, res.Errors)
				}
			}

			if n, err := svc.MarkOverdue(now); err != nil {
				log.Printf("[BILLING ERROR] sweep overdue gagal: %v", err)
			} else if n > 0 {
				log.Printf("[BILLING] %d invoice ditandai overdue", n)
			}

			// Jalankan tiap 24 jam
			time.Sleep(24 * time.Hour)
		}
	}()
}
