package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	paymentModel "hostelku_backend/internals/features/finance/payments/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

var SnapClient snap.Client
var midtransServerKey string

// InitMidtrans menginisialisasi Midtrans Snap Client dengan server key.
func InitMidtrans(serverKey string) {
	midtransServerKey = serverKey
	SnapClient.New(serverKey, midtrans.Sandbox)
}

// CreateGatewayPayment membuat payment pending + transaksi Snap; penghuni
// membayar lewat checkout URL, status final datang via webhook.
func (s *PaymentService) CreateGatewayPayment(studentID uuid.UUID, amount decimal.Decimal) (*paymentModel.Payment, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount harus > 0", helper.ErrInvalidArgument)
	}

	var st studentModel.Student
	if err := s.DB.First(&st, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %s", helper.ErrNotFound, studentID)
		}
		return nil, err
	}

	orderID := "PAY-" + uuid.NewString()
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount.IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: st.StudentName,
		},
	}
	if st.StudentEmail != nil {
		req.CustomerDetail.Email = *st.StudentEmail
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("midtrans: %v", err)
	}

	pay := &paymentModel.Payment{
		PaymentStudentID:       studentID,
		PaymentAmount:          amount,
		PaymentMethod:          paymentModel.PaymentMethodOnline,
		PaymentStatus:          paymentModel.PaymentStatusPending,
		PaymentDate:            time.Now(),
		PaymentOrderID:         &orderID,
		PaymentCheckoutURL:     &resp.RedirectURL,
		PaymentAllocatedAmount: decimal.Zero,
		PaymentAdvanceAmount:   decimal.Zero,
	}
	if err := s.DB.Create(pay).Error; err != nil {
		return nil, err
	}
	return pay, nil
}

// HandleMidtransWebhook memproses notifikasi status transaksi dari Midtrans.
// Signature: sha512(order_id + status_code + gross_amount + server_key).
func (s *PaymentService) HandleMidtransWebhook(body map[string]interface{}) error {
	orderID, ok1 := body["order_id"].(string)
	status, ok2 := body["transaction_status"].(string)
	if !ok1 || !ok2 {
		log.Println("[ERROR] Payload webhook tidak lengkap:", body)
		return fmt.Errorf("%w: payload webhook tidak lengkap", helper.ErrInvalidArgument)
	}

	// Signature wajib: tanpa ini endpoint publik bisa menyelesaikan payment
	// orang lain hanya dengan menebak order_id.
	sig, _ := body["signature_key"].(string)
	statusCode, _ := body["status_code"].(string)
	grossAmount, _ := body["gross_amount"].(string)
	if sig == "" || !verifySignature(orderID, statusCode, grossAmount, sig) {
		log.Printf("[WEBHOOK] ❌ signature tidak valid untuk order %s", orderID)
		return fmt.Errorf("%w: signature webhook tidak valid", helper.ErrInvalidArgument)
	}

	log.Printf("[WEBHOOK] order_id=%s status=%s", orderID, status)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var pay paymentModel.Payment
		if err := tx.First(&pay, "payment_order_id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment order %s", helper.ErrNotFound, orderID)
			}
			return err
		}

		// Payment yang sudah final tidak diproses dua kali.
		if pay.PaymentStatus != paymentModel.PaymentStatusPending {
			log.Printf("[WEBHOOK] order %s sudah %s, diabaikan", orderID, pay.PaymentStatus)
			return nil
		}

		switch status {
		case "capture", "settlement":
			pay.PaymentStatus = paymentModel.PaymentStatusCompleted
			if err := tx.Model(&paymentModel.Payment{}).
				Where("payment_id = ?", pay.PaymentID).
				Update("payment_status", pay.PaymentStatus).Error; err != nil {
				return err
			}
			return autoAllocateTx(tx, &pay)
		case "expire", "cancel", "deny":
			return tx.Model(&paymentModel.Payment{}).
				Where("payment_id = ?", pay.PaymentID).
				Update("payment_status", paymentModel.PaymentStatusFailed).Error
		default:
			log.Println("[WEBHOOK] Status tidak diproses:", status)
			return nil
		}
	})
}

func verifySignature(orderID, statusCode, grossAmount, signature string) bool {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + midtransServerKey))
	return hex.EncodeToString(h[:]) == signature
}
