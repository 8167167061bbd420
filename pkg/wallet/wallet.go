// Package wallet is a payment simulator: a balance and an invoice state
// machine, enough to script payment flows in test scenarios. It has no
// interaction with the relay engine beyond appearing in the same scenarios.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/minio/sha256-simd"
	"github.com/nostrtools/simulatr/pkg/nostr/timestamp"
	"github.com/nostrtools/simulatr/pkg/slog"
	"lukechampine.com/frand"
)

var log, chk = slog.New(os.Stderr)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownInvoice      = errors.New("unknown invoice")
	ErrInvoiceNotPending   = errors.New("invoice is not pending")
)

// InvoiceState is the lifecycle position of an invoice:
// pending, then exactly one of settled or canceled.
type InvoiceState int

const (
	Pending InvoiceState = iota
	Settled
	Canceled
)

func (s InvoiceState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Settled:
		return "settled"
	case Canceled:
		return "canceled"
	}
	return fmt.Sprintf("invalid(%d)", int(s))
}

// Invoice is a receivable issued by one wallet. The payment hash is the
// SHA256 of a random preimage, which the payer learns on settlement.
type Invoice struct {
	PaymentHash string
	Amount      int64
	Memo        string
	CreatedAt   timestamp.T
	State       InvoiceState

	preimage string
	owner    *T
}

// Preimage reveals the preimage once the invoice settles, empty before.
func (inv *Invoice) Preimage() string {
	inv.owner.mx.Lock()
	defer inv.owner.mx.Unlock()
	if inv.State != Settled {
		return ""
	}
	return inv.preimage
}

// T is one simulated wallet.
type T struct {
	mx       sync.Mutex
	balance  int64
	invoices map[string]*Invoice
}

func New(balance int64) *T {
	return &T{
		balance:  balance,
		invoices: make(map[string]*Invoice),
	}
}

func (w *T) Balance() int64 {
	w.mx.Lock()
	defer w.mx.Unlock()
	return w.balance
}

// Invoice issues a pending receivable for the given amount.
func (w *T) Invoice(amount int64, memo string) (inv *Invoice) {
	preimage := frand.Bytes(32)
	hash := sha256.Sum256(preimage)
	inv = &Invoice{
		PaymentHash: hex.EncodeToString(hash[:]),
		Amount:      amount,
		Memo:        memo,
		CreatedAt:   timestamp.Now(),
		State:       Pending,
		preimage:    hex.EncodeToString(preimage),
		owner:       w,
	}
	w.mx.Lock()
	defer w.mx.Unlock()
	w.invoices[inv.PaymentHash] = inv
	log.D.F("issued invoice %s for %d: %s", inv.PaymentHash, amount, memo)
	return
}

// LookupInvoice finds one of this wallet's invoices by payment hash.
func (w *T) LookupInvoice(paymentHash string) (inv *Invoice, err error) {
	w.mx.Lock()
	defer w.mx.Unlock()
	inv, ok := w.invoices[paymentHash]
	if !ok {
		return nil, ErrUnknownInvoice
	}
	return
}

// Settle marks a pending invoice settled and credits this wallet, as if it
// was paid from outside the simulated world. No payer balance moves.
func (w *T) Settle(paymentHash string) (preimage string, err error) {
	w.mx.Lock()
	defer w.mx.Unlock()
	inv, ok := w.invoices[paymentHash]
	if !ok {
		return "", ErrUnknownInvoice
	}
	if inv.State != Pending {
		return "", ErrInvoiceNotPending
	}
	inv.State = Settled
	w.balance += inv.Amount
	log.D.F("settled invoice %s for %d", inv.PaymentHash, inv.Amount)
	return inv.preimage, nil
}

// Cancel voids a pending invoice so it can no longer be paid.
func (w *T) Cancel(paymentHash string) (err error) {
	w.mx.Lock()
	defer w.mx.Unlock()
	inv, ok := w.invoices[paymentHash]
	if !ok {
		return ErrUnknownInvoice
	}
	if inv.State != Pending {
		return ErrInvoiceNotPending
	}
	inv.State = Canceled
	return
}

// Pay settles an invoice issued by another wallet: the payer balance is
// debited, the issuer credited, the invoice settled, all atomically from
// the point of view of either balance. Paying one's own invoice is allowed
// and is a no-op on the balance.
func (w *T) Pay(inv *Invoice) (preimage string, err error) {
	if inv == nil || inv.owner == nil {
		return "", ErrUnknownInvoice
	}
	payee := inv.owner
	// both balances move under both locks, taken in address order so two
	// wallets paying each other concurrently cannot deadlock
	first, second := w, payee
	if payee != w && uintptr(unsafe.Pointer(payee)) < uintptr(unsafe.Pointer(w)) {
		first, second = payee, w
	}
	first.mx.Lock()
	defer first.mx.Unlock()
	if second != first {
		second.mx.Lock()
		defer second.mx.Unlock()
	}
	if inv.State != Pending {
		return "", ErrInvoiceNotPending
	}
	if w.balance < inv.Amount {
		return "", ErrInsufficientBalance
	}
	w.balance -= inv.Amount
	payee.balance += inv.Amount
	inv.State = Settled
	log.D.F("paid invoice %s for %d", inv.PaymentHash, inv.Amount)
	return inv.preimage, nil
}
