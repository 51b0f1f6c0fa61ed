package service

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	paymentModel "hostelku_backend/internals/features/finance/payments/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

const testServerKey = "unit-test-server-key"

// Payment gateway pending langsung di DB, tanpa memanggil Snap.
func newPendingGatewayPayment(t *testing.T, db *gorm.DB, code, orderID, amount string) *paymentModel.Payment {
	t.Helper()
	var st studentModel.Student
	require.NoError(t, db.First(&st, "student_code = ?", code).Error)

	pay := &paymentModel.Payment{
		PaymentStudentID:       st.StudentID,
		PaymentAmount:          dec(amount),
		PaymentMethod:          paymentModel.PaymentMethodOnline,
		PaymentStatus:          paymentModel.PaymentStatusPending,
		PaymentDate:            time.Now(),
		PaymentOrderID:         &orderID,
		PaymentAllocatedAmount: decimal.Zero,
		PaymentAdvanceAmount:   decimal.Zero,
	}
	require.NoError(t, db.Create(pay).Error)
	return pay
}

func signedBody(orderID, statusCode, grossAmount, status string) map[string]interface{} {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return map[string]interface{}{
		"order_id":           orderID,
		"transaction_status": status,
		"status_code":        statusCode,
		"gross_amount":       grossAmount,
		"signature_key":      hex.EncodeToString(h[:]),
	}
}

func TestWebhook_MissingSignatureRejected(t *testing.T) {
	db := newTestDB(t)
	midtransServerKey = testServerKey
	newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "5000.00",
	}, 7, 2024)
	pay := newPendingGatewayPayment(t, db, "STU001", "PAY-ORDER-1", "5000.00")

	svc := NewPaymentService(db)
	err := svc.HandleMidtransWebhook(map[string]interface{}{
		"order_id":           "PAY-ORDER-1",
		"transaction_status": "settlement",
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	// Payment tetap pending, tidak ada alokasi
	var got paymentModel.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", pay.PaymentID).Error)
	require.Equal(t, paymentModel.PaymentStatusPending, got.PaymentStatus)
	require.True(t, got.PaymentAllocatedAmount.IsZero())
}

func TestWebhook_WrongSignatureRejected(t *testing.T) {
	db := newTestDB(t)
	midtransServerKey = testServerKey
	newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "5000.00",
	}, 7, 2024)
	pay := newPendingGatewayPayment(t, db, "STU001", "PAY-ORDER-2", "5000.00")

	svc := NewPaymentService(db)
	err := svc.HandleMidtransWebhook(map[string]interface{}{
		"order_id":           "PAY-ORDER-2",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "5000.00",
		"signature_key":      "bukan-signature-sah",
	})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	var got paymentModel.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", pay.PaymentID).Error)
	require.Equal(t, paymentModel.PaymentStatusPending, got.PaymentStatus)
}

func TestWebhook_ValidSignatureSettles(t *testing.T) {
	db := newTestDB(t)
	midtransServerKey = testServerKey
	st := newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "5000.00",
	}, 7, 2024)
	pay := newPendingGatewayPayment(t, db, "STU001", "PAY-ORDER-3", "5000.00")

	svc := NewPaymentService(db)
	require.NoError(t, svc.HandleMidtransWebhook(signedBody("PAY-ORDER-3", "200", "5000.00", "settlement")))

	var got paymentModel.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", pay.PaymentID).Error)
	require.Equal(t, paymentModel.PaymentStatusCompleted, got.PaymentStatus)
	require.True(t, got.PaymentAllocatedAmount.Equal(dec("5000.00")))

	inv := invoiceOf(t, db, st.StudentID, 7, 2024)
	require.True(t, inv.InvoicePaidAmount.Equal(dec("5000.00")))

	// Webhook ulang untuk order yang sama tidak memproses dua kali
	require.NoError(t, svc.HandleMidtransWebhook(signedBody("PAY-ORDER-3", "200", "5000.00", "settlement")))
	require.NoError(t, db.First(&got, "payment_id = ?", pay.PaymentID).Error)
	require.True(t, got.PaymentAllocatedAmount.Equal(dec("5000.00")))
}

func TestWebhook_FailureStatusMarksFailed(t *testing.T) {
	db := newTestDB(t)
	midtransServerKey = testServerKey
	newBilledStudent(t, db, "STU001", map[studentModel.FeeType]string{
		studentModel.FeeTypeBaseMonthly: "5000.00",
	}, 7, 2024)
	pay := newPendingGatewayPayment(t, db, "STU001", "PAY-ORDER-4", "5000.00")

	svc := NewPaymentService(db)
	require.NoError(t, svc.HandleMidtransWebhook(signedBody("PAY-ORDER-4", "202", "5000.00", "expire")))

	var got paymentModel.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", pay.PaymentID).Error)
	require.Equal(t, paymentModel.PaymentStatusFailed, got.PaymentStatus)
}
