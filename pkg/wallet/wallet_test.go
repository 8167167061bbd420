package wallet

import (
	"encoding/hex"
	"sync"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceLifecycle(t *testing.T) {
	payee := New(0)
	payer := New(500)

	inv := payee.Invoice(300, "coffee")
	assert.Equal(t, Pending, inv.State)
	assert.Len(t, inv.PaymentHash, 64)
	assert.Empty(t, inv.Preimage())

	preimage, err := payer.Pay(inv)
	require.NoError(t, err)
	assert.Equal(t, Settled, inv.State)
	assert.EqualValues(t, 200, payer.Balance())
	assert.EqualValues(t, 300, payee.Balance())

	// the revealed preimage hashes to the payment hash
	raw, err := hex.DecodeString(preimage)
	require.NoError(t, err)
	h := sha256.Sum256(raw)
	assert.Equal(t, inv.PaymentHash, hex.EncodeToString(h[:]))
	assert.Equal(t, preimage, inv.Preimage())

	// settled invoices cannot be paid or canceled again
	_, err = payer.Pay(inv)
	assert.ErrorIs(t, err, ErrInvoiceNotPending)
	assert.ErrorIs(t, payee.Cancel(inv.PaymentHash), ErrInvoiceNotPending)
}

func TestPayInsufficientBalance(t *testing.T) {
	payee := New(0)
	payer := New(100)
	inv := payee.Invoice(300, "too much")

	_, err := payer.Pay(inv)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, Pending, inv.State)
	assert.EqualValues(t, 100, payer.Balance())
	assert.EqualValues(t, 0, payee.Balance())
}

func TestCancelPreventsPayment(t *testing.T) {
	payee := New(0)
	payer := New(500)
	inv := payee.Invoice(100, "changed my mind")

	require.NoError(t, payee.Cancel(inv.PaymentHash))
	assert.Equal(t, Canceled, inv.State)

	_, err := payer.Pay(inv)
	assert.ErrorIs(t, err, ErrInvoiceNotPending)
	assert.ErrorIs(t, payee.Cancel("feedface"), ErrUnknownInvoice)
}

func TestSettleWithoutPayer(t *testing.T) {
	w := New(0)
	inv := w.Invoice(250, "paid out of band")

	preimage, err := w.Settle(inv.PaymentHash)
	require.NoError(t, err)
	assert.NotEmpty(t, preimage)
	assert.Equal(t, Settled, inv.State)
	assert.EqualValues(t, 250, w.Balance())

	_, err = w.Settle(inv.PaymentHash)
	assert.ErrorIs(t, err, ErrInvoiceNotPending)
	_, err = w.Settle("deadbeef")
	assert.ErrorIs(t, err, ErrUnknownInvoice)
}

func TestLookupInvoice(t *testing.T) {
	w := New(0)
	inv := w.Invoice(50, "find me")

	got, err := w.LookupInvoice(inv.PaymentHash)
	require.NoError(t, err)
	assert.Same(t, inv, got)

	_, err = w.LookupInvoice("deadbeef")
	assert.ErrorIs(t, err, ErrUnknownInvoice)
}

func TestPaySelfLeavesBalanceUnchanged(t *testing.T) {
	w := New(100)
	inv := w.Invoice(40, "note to self")
	_, err := w.Pay(inv)
	require.NoError(t, err)
	assert.Equal(t, Settled, inv.State)
	assert.EqualValues(t, 100, w.Balance())
}

func TestConcurrentCrossPayments(t *testing.T) {
	// two wallets paying each other from both directions at once must
	// neither deadlock nor lose funds
	a := New(10000)
	b := New(10000)
	const n = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_, err := a.Pay(b.Invoice(1, "a to b"))
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_, err := b.Pay(a.Invoice(1, "b to a"))
			assert.NoError(t, err)
		}
	}()
	wg.Wait()
	assert.EqualValues(t, 20000, a.Balance()+b.Balance())
	assert.EqualValues(t, 10000, a.Balance())
}
