package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hostelku_backend/internals/configs"
	chargeModel "hostelku_backend/internals/features/finance/admincharges/model"
	billingModel "hostelku_backend/internals/features/finance/billings/model"
	discountModel "hostelku_backend/internals/features/finance/discounts/model"
	ledgerModel "hostelku_backend/internals/features/finance/ledger/model"
	paymentModel "hostelku_backend/internals/features/finance/payments/model"
	checkoutModel "hostelku_backend/internals/features/hostel/checkout/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	authModel "hostelku_backend/internals/features/users/auth/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=hostelku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate menjalankan AutoMigrate untuk semua model aplikasi.
// Urutan: parent dulu, lalu child yang punya FK.
func Migrate() {
	if err := MigrateAll(DB); err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}
	log.Println("✅ Migrasi selesai.")
}

func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&authModel.User{},
		&authModel.TokenBlacklist{},
		&roomModel.Room{},
		&roomModel.Bed{},
		&studentModel.Student{},
		&studentModel.FinancialInfo{},
		&ledgerModel.LedgerEntry{},
		&billingModel.Invoice{},
		&billingModel.InvoiceItem{},
		&paymentModel.Payment{},
		&paymentModel.PaymentInvoiceAllocation{},
		&discountModel.Discount{},
		&chargeModel.AdminCharge{},
		&checkoutModel.CheckoutRecord{},
	)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool siap dipakai
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("[WARMUP] ping err: %v", err)
			return
		}
		var n int64
		if err := DB.Raw("SELECT count(*) FROM students").Scan(&n).Error; err == nil {
			log.Printf("[WARMUP] students=%d", n)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
