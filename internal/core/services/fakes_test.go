package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/postingrules"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
)

// --- Clock ---

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// --- Handles ---

type inTxKey struct{}

// txHandle is handed to code running inside RunInTx; the store lock is already held.
type txHandle struct{ portsrepo.DBTX }

// poolHandle is the non-transactional handle; every call takes the store lock.
type poolHandle struct{ portsrepo.DBTX }

// --- Store ---

// memStore is an in-memory implementation of every repository port. Transactions
// are serialised by one mutex and rolled back by restoring a snapshot.
type memStore struct {
	mu sync.Mutex
	data
}

type data struct {
	accounts     map[string]domain.Account
	mappings     map[domain.PaymentMethod]domain.PaymentMethodMapping
	vatRules     []domain.VATAccountRule
	postings     []domain.Posting
	fingerprints map[string]domain.BookingFingerprint
	sequences    map[domain.DocumentType]domain.DocumentNumberSequence
	numberLog    map[string]domain.IssuedNumber
	orders       map[int64]domain.Order
	history      []domain.OrderStatusHistory
	customers    map[string]domain.CustomerSnapshot
	invoices     map[int64]domain.Invoice
	packingLists map[int64]domain.PackingList
	deliveryNote map[int64]domain.DeliveryNote
	postEntries  map[int64]domain.PostEntry
	nextOrderID  int64
	nextDocID    int64

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	s := &memStore{}
	s.data = data{
		accounts:     map[string]domain.Account{},
		mappings:     map[domain.PaymentMethod]domain.PaymentMethodMapping{},
		vatRules:     postingrules.DefaultSKR03Rules(),
		fingerprints: map[string]domain.BookingFingerprint{},
		sequences:    map[domain.DocumentType]domain.DocumentNumberSequence{},
		numberLog:    map[string]domain.IssuedNumber{},
		orders:       map[int64]domain.Order{},
		customers:    map[string]domain.CustomerSnapshot{},
		invoices:     map[int64]domain.Invoice{},
		packingLists: map[int64]domain.PackingList{},
		deliveryNote: map[int64]domain.DeliveryNote{},
		postEntries:  map[int64]domain.PostEntry{},
	}
	s.seed()
	return s
}

func (s *memStore) seed() {
	for _, a := range []struct {
		number string
		kind   domain.AccountKind
	}{
		{"1000", domain.AccountKindAsset}, {"1200", domain.AccountKindAsset}, {"1360", domain.AccountKindAsset},
		{"1400", domain.AccountKindAsset}, {"1571", domain.AccountKindAsset}, {"1576", domain.AccountKindAsset},
		{"1600", domain.AccountKindLiability}, {"1771", domain.AccountKindLiability}, {"1776", domain.AccountKindLiability},
		{"1590", domain.AccountKindNeutral}, {"3400", domain.AccountKindExpense}, {"3800", domain.AccountKindExpense},
		{"4980", domain.AccountKindExpense}, {"8125", domain.AccountKindRevenue}, {"8300", domain.AccountKindRevenue},
		{"8400", domain.AccountKindRevenue},
	} {
		s.accounts[a.number] = domain.Account{Number: a.number, Name: "Account " + a.number, Kind: a.kind, Active: true, Chart: domain.DefaultChart}
	}
	for method, account := range domain.DefaultPaymentAccounts {
		s.mappings[method] = domain.PaymentMethodMapping{Method: method, AccountNumber: account, Active: true}
	}
	prefixes := map[domain.DocumentType]string{
		domain.DocOrder: "AUF", domain.DocOffer: "AN", domain.DocInvoice: "RE", domain.DocCashReceipt: "KAS",
		domain.DocPackingList: "PL", domain.DocDeliveryNote: "LS", domain.DocDesign: "D", domain.DocDesignOrder: "DO",
		domain.DocPostEntry: "PE", domain.DocShippingBulk: "SB", domain.DocSupplierOrder: "SO", domain.DocCreditNote: "GS",
	}
	for docType, prefix := range prefixes {
		seq := domain.DocumentNumberSequence{
			DocType: docType, Prefix: prefix, Separator: "-", IncludeYear: true, NumberLength: 4, ResetYearly: true,
		}
		if docType == domain.DocInvoice {
			seq.IncludeMonth, seq.ResetYearly, seq.ResetMonthly = true, false, true
		}
		s.sequences[docType] = seq
	}
	s.customers["C-1"] = domain.CustomerSnapshot{CustomerID: "C-1", Name: "Vereinsheim Nord", City: "Hamburg"}
}

func (d data) clone() data {
	c := d
	c.accounts = cloneMap(d.accounts)
	c.mappings = cloneMap(d.mappings)
	c.vatRules = append([]domain.VATAccountRule(nil), d.vatRules...)
	c.postings = append([]domain.Posting(nil), d.postings...)
	c.fingerprints = cloneMap(d.fingerprints)
	c.sequences = cloneMap(d.sequences)
	c.numberLog = cloneMap(d.numberLog)
	c.orders = cloneMap(d.orders)
	c.history = append([]domain.OrderStatusHistory(nil), d.history...)
	c.customers = cloneMap(d.customers)
	c.invoices = cloneMap(d.invoices)
	c.packingLists = cloneMap(d.packingLists)
	c.deliveryNote = cloneMap(d.deliveryNote)
	c.postEntries = cloneMap(d.postEntries)
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RunInTx implements portsrepo.TransactionManager.
func (s *memStore) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, inTxKey{}, true), txHandle{}); err != nil {
		commits, rollbacks := s.commits, s.rollbacks
		s.data = snapshot
		s.commits, s.rollbacks = commits, rollbacks+1
		return err
	}
	s.commits++
	return nil
}

// DB implements portsrepo.TransactionManager.
func (s *memStore) DB() portsrepo.DBTX { return poolHandle{} }

// with runs fn under the store lock unless the caller already runs inside RunInTx.
// Reads through DB() from inside a transaction would otherwise deadlock.
func (s *memStore) with(ctx context.Context, db portsrepo.DBTX, fn func()) {
	_, inTx := db.(txHandle)
	if !inTx && ctx.Value(inTxKey{}) == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

func (s *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       s,
		AccountRepo:     s,
		MappingRepo:     s,
		VATRuleRepo:     s,
		PostingRepo:     s,
		FingerprintRepo: s,
		SequenceRepo:    s,
		NumberLogRepo:   s,
		OrderRepo:       s,
		CustomerRepo:    s,
		DocumentRepo:    s,
	}
}

// snapshotPostings returns a copy of every posting in id order.
func (s *memStore) snapshotPostings() []domain.Posting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Posting(nil), s.postings...)
}

func (s *memStore) order(id int64) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

// --- Accounts ---

func (s *memStore) FindAccountByNumber(ctx context.Context, db portsrepo.DBTX, number string) (*domain.Account, error) {
	var out *domain.Account
	s.with(ctx, db, func() {
		if a, ok := s.accounts[number]; ok {
			out = &a
		}
	})
	if out == nil {
		return nil, apperrors.ErrUnknownAccount
	}
	return out, nil
}

func (s *memStore) FindAccountsByNumbers(ctx context.Context, db portsrepo.DBTX, numbers []string) (map[string]domain.Account, error) {
	out := map[string]domain.Account{}
	s.with(ctx, db, func() {
		for _, n := range numbers {
			if a, ok := s.accounts[n]; ok {
				out[n] = a
			}
		}
	})
	return out, nil
}

func (s *memStore) ListAccounts(ctx context.Context, db portsrepo.DBTX, activeOnly bool) ([]domain.Account, error) {
	var out []domain.Account
	s.with(ctx, db, func() {
		for _, a := range s.accounts {
			if !activeOnly || a.Active {
				out = append(out, a)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *memStore) SetAccountActive(ctx context.Context, db portsrepo.DBTX, number string, active bool) error {
	var err error
	s.with(ctx, db, func() {
		a, ok := s.accounts[number]
		if !ok {
			err = apperrors.ErrUnknownAccount
			return
		}
		a.Active = active
		s.accounts[number] = a
	})
	return err
}

func (s *memStore) SumAccount(ctx context.Context, db portsrepo.DBTX, number string, from, to *time.Time) (domain.AccountTotals, error) {
	totals := domain.AccountTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	s.with(ctx, db, func() {
		for _, p := range s.postings {
			if p.Reversed || p.IsCounterPosting() || !inRange(p.Date, from, to) {
				continue
			}
			if p.DebitAccount == number {
				totals.Debit = totals.Debit.Add(p.Amount)
			}
			if p.CreditAccount == number {
				totals.Credit = totals.Credit.Add(p.Amount)
			}
		}
	})
	return totals, nil
}

func (s *memStore) HasPostingsSince(ctx context.Context, db portsrepo.DBTX, number string, since time.Time) (bool, error) {
	found := false
	s.with(ctx, db, func() {
		for _, p := range s.postings {
			if (p.DebitAccount == number || p.CreditAccount == number) && !p.Date.Before(since) {
				found = true
				return
			}
		}
	})
	return found, nil
}

func inRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// --- Payment mappings and VAT rules ---

func (s *memStore) FindMappingByMethod(ctx context.Context, db portsrepo.DBTX, method domain.PaymentMethod) (*domain.PaymentMethodMapping, error) {
	var out *domain.PaymentMethodMapping
	s.with(ctx, db, func() {
		if m, ok := s.mappings[method]; ok {
			out = &m
		}
	})
	if out == nil {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}

func (s *memStore) ListMappings(ctx context.Context, db portsrepo.DBTX) ([]domain.PaymentMethodMapping, error) {
	var out []domain.PaymentMethodMapping
	s.with(ctx, db, func() {
		for _, m := range s.mappings {
			out = append(out, m)
		}
	})
	return out, nil
}

func (s *memStore) UpsertMapping(ctx context.Context, db portsrepo.DBTX, m domain.PaymentMethodMapping) error {
	s.with(ctx, db, func() { s.mappings[m.Method] = m })
	return nil
}

func (s *memStore) ListVATRules(ctx context.Context, db portsrepo.DBTX) ([]domain.VATAccountRule, error) {
	var out []domain.VATAccountRule
	s.with(ctx, db, func() { out = append(out, s.vatRules...) })
	return out, nil
}

// --- Postings ---

func (s *memStore) FindPostingByID(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Posting, error) {
	var out *domain.Posting
	s.with(ctx, db, func() {
		if id >= 1 && int(id) <= len(s.postings) {
			p := s.postings[id-1]
			out = &p
		}
	})
	if out == nil {
		return nil, apperrors.ErrPostingNotFound
	}
	return out, nil
}

func (s *memStore) FindPostingByIDForUpdate(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Posting, error) {
	return s.FindPostingByID(ctx, db, id)
}

func (s *memStore) FindCounterPosting(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Posting, error) {
	var out *domain.Posting
	s.with(ctx, db, func() {
		for _, p := range s.postings {
			if p.ReversalOf != nil && *p.ReversalOf == id {
				p := p
				out = &p
				return
			}
		}
	})
	if out == nil {
		return nil, apperrors.ErrPostingNotFound
	}
	return out, nil
}

func (s *memStore) ListPostings(ctx context.Context, db portsrepo.DBTX, f domain.PostingFilter) ([]domain.Posting, error) {
	var out []domain.Posting
	s.with(ctx, db, func() {
		for _, p := range s.postings {
			if f.Account != "" && p.DebitAccount != f.Account && p.CreditAccount != f.Account {
				continue
			}
			if f.Kind != "" && p.Kind != f.Kind {
				continue
			}
			if f.ExcludeReversed && p.Reversed {
				continue
			}
			if !inRange(p.Date, f.DateFrom, f.DateTo) {
				continue
			}
			out = append(out, p)
		}
	})
	less := func(a, b domain.Posting) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	}
	if f.Ascending {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	} else {
		sort.Slice(out, func(i, j int) bool { return less(out[j], out[i]) })
	}
	if f.After != nil {
		cursor := domain.Posting{Date: f.After.Date, ID: f.After.ID}
		kept := out[:0]
		for _, p := range out {
			if (f.Ascending && less(cursor, p)) || (!f.Ascending && less(p, cursor)) {
				kept = append(kept, p)
			}
		}
		out = kept
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *memStore) ListPostingsBySource(ctx context.Context, db portsrepo.DBTX, sourceKind string, sourceID int64) ([]domain.Posting, error) {
	var out []domain.Posting
	s.with(ctx, db, func() {
		for _, p := range s.postings {
			if p.SourceKind == sourceKind && p.SourceID == sourceID {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (s *memStore) CountPostings(ctx context.Context, db portsrepo.DBTX, from, to *time.Time) (int, error) {
	n := 0
	s.with(ctx, db, func() {
		for _, p := range s.postings {
			if !p.Reversed && !p.IsCounterPosting() && inRange(p.Date, from, to) {
				n++
			}
		}
	})
	return n, nil
}

func (s *memStore) InsertPosting(ctx context.Context, db portsrepo.DBTX, d domain.PostingDraft, createdAt time.Time) (int64, error) {
	var id int64
	var err error
	s.with(ctx, db, func() {
		if d.ReversalOf != nil {
			for _, p := range s.postings {
				if p.ReversalOf != nil && *p.ReversalOf == *d.ReversalOf {
					err = apperrors.ErrDuplicate
					return
				}
			}
		}
		id = int64(len(s.postings) + 1)
		s.postings = append(s.postings, domain.Posting{
			ID:            id,
			Date:          d.Date,
			DocRef:        d.DocRef,
			DebitAccount:  d.DebitAccount,
			CreditAccount: d.CreditAccount,
			Amount:        d.Amount,
			TaxAmount:     d.TaxAmount,
			Text:          d.Text,
			Kind:          d.Kind,
			SourceKind:    d.SourceKind,
			SourceID:      d.SourceID,
			CostCenter:    d.CostCenter,
			CreatedAt:     createdAt,
			CreatedBy:     d.CreatedBy,
			ReversalOf:    d.ReversalOf,
		})
	})
	return id, err
}

func (s *memStore) MarkReversed(ctx context.Context, db portsrepo.DBTX, id int64, reason string, at time.Time) error {
	var err error
	s.with(ctx, db, func() {
		if id < 1 || int(id) > len(s.postings) {
			err = apperrors.ErrPostingNotFound
			return
		}
		p := &s.postings[id-1]
		if p.Reversed {
			err = apperrors.ErrConflict
			return
		}
		p.Reversed = true
		p.ReversedAt = &at
		p.ReversalReason = &reason
	})
	return err
}

func (s *memStore) ClaimFingerprint(ctx context.Context, db portsrepo.DBTX, fp domain.BookingFingerprint) (bool, error) {
	claimed := false
	s.with(ctx, db, func() {
		if _, ok := s.fingerprints[fp.Fingerprint]; ok {
			return
		}
		s.fingerprints[fp.Fingerprint] = fp
		claimed = true
	})
	return claimed, nil
}

// --- Sequences ---

func (s *memStore) FindSequenceForUpdate(ctx context.Context, db portsrepo.DBTX, docType domain.DocumentType) (*domain.DocumentNumberSequence, error) {
	var out *domain.DocumentNumberSequence
	s.with(ctx, db, func() {
		if seq, ok := s.sequences[docType]; ok {
			out = &seq
		}
	})
	if out == nil {
		return nil, apperrors.ErrSequenceNotConfigured
	}
	return out, nil
}

func (s *memStore) UpdateSequenceCounter(ctx context.Context, db portsrepo.DBTX, seq domain.DocumentNumberSequence) error {
	s.with(ctx, db, func() { s.sequences[seq.DocType] = seq })
	return nil
}

func (s *memStore) ListSequences(ctx context.Context, db portsrepo.DBTX) ([]domain.DocumentNumberSequence, error) {
	var out []domain.DocumentNumberSequence
	s.with(ctx, db, func() {
		for _, seq := range s.sequences {
			out = append(out, seq)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DocType < out[j].DocType })
	return out, nil
}

func (s *memStore) LogIssuedNumber(ctx context.Context, db portsrepo.DBTX, entry domain.IssuedNumber) error {
	var err error
	s.with(ctx, db, func() {
		if _, dup := s.numberLog[entry.Number]; dup {
			err = apperrors.ErrDuplicate
			return
		}
		s.numberLog[entry.Number] = entry
	})
	return err
}

func (s *memStore) CancelIssuedNumber(ctx context.Context, db portsrepo.DBTX, number, reason, by string, at time.Time) error {
	var err error
	s.with(ctx, db, func() {
		entry, ok := s.numberLog[number]
		if !ok {
			err = apperrors.ErrNotFound
			return
		}
		if entry.Cancelled {
			err = apperrors.ErrConflict
			return
		}
		entry.Cancelled = true
		entry.CancelledAt = &at
		entry.CancelledBy = &by
		entry.CancelReason = &reason
		s.numberLog[number] = entry
	})
	return err
}

// --- Orders ---

func (s *memStore) FindOrderByID(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Order, error) {
	var out *domain.Order
	s.with(ctx, db, func() {
		if o, ok := s.orders[id]; ok {
			out = &o
		}
	})
	if out == nil {
		return nil, apperrors.ErrOrderNotFound
	}
	return out, nil
}

func (s *memStore) FindOrderByIDForUpdate(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Order, error) {
	return s.FindOrderByID(ctx, db, id)
}

func (s *memStore) FindOrderByApprovalTokenForUpdate(ctx context.Context, db portsrepo.DBTX, tokenHash string) (*domain.Order, error) {
	var out *domain.Order
	s.with(ctx, db, func() {
		for _, o := range s.orders {
			if o.DesignApprovalTokenHash != nil && *o.DesignApprovalTokenHash == tokenHash {
				o := o
				out = &o
				return
			}
		}
	})
	if out == nil {
		return nil, apperrors.ErrOrderNotFound
	}
	return out, nil
}

func (s *memStore) ListExpiredOfferIDs(ctx context.Context, db portsrepo.DBTX, today time.Time) ([]int64, error) {
	var out []int64
	s.with(ctx, db, func() {
		for id, o := range s.orders {
			if o.WorkflowStatus == domain.StatusOffer && o.ArchivedAt == nil &&
				o.OfferValidUntil != nil && o.OfferValidUntil.Before(today) {
				out = append(out, id)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memStore) InsertOrder(ctx context.Context, db portsrepo.DBTX, o domain.Order) (int64, error) {
	var id int64
	s.with(ctx, db, func() {
		s.nextOrderID++
		id = s.nextOrderID
		o.ID = id
		s.orders[id] = o
	})
	return id, nil
}

func (s *memStore) UpdateOrder(ctx context.Context, db portsrepo.DBTX, o domain.Order) error {
	var err error
	s.with(ctx, db, func() {
		if _, ok := s.orders[o.ID]; !ok {
			err = apperrors.ErrOrderNotFound
			return
		}
		s.orders[o.ID] = o
	})
	return err
}

func (s *memStore) AppendStatusHistory(ctx context.Context, db portsrepo.DBTX, entry domain.OrderStatusHistory) error {
	s.with(ctx, db, func() {
		entry.ID = int64(len(s.history) + 1)
		s.history = append(s.history, entry)
	})
	return nil
}

func (s *memStore) ListStatusHistory(ctx context.Context, db portsrepo.DBTX, orderID int64) ([]domain.OrderStatusHistory, error) {
	var out []domain.OrderStatusHistory
	s.with(ctx, db, func() {
		for _, h := range s.history {
			if h.OrderID == orderID {
				out = append(out, h)
			}
		}
	})
	return out, nil
}

// --- Customers and documents ---

func (s *memStore) FindCustomerSnapshot(ctx context.Context, db portsrepo.DBTX, customerID string) (*domain.CustomerSnapshot, error) {
	var out *domain.CustomerSnapshot
	s.with(ctx, db, func() {
		if c, ok := s.customers[customerID]; ok {
			out = &c
		}
	})
	if out == nil {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}

func (s *memStore) newDocID() int64 {
	s.nextDocID++
	return s.nextDocID
}

func (s *memStore) CreateInvoice(ctx context.Context, db portsrepo.DBTX, inv domain.Invoice) (domain.DocumentRef, error) {
	var ref domain.DocumentRef
	var err error
	s.with(ctx, db, func() {
		for _, existing := range s.invoices {
			if existing.OrderID == inv.OrderID {
				err = apperrors.ErrConflict
				return
			}
		}
		inv.ID = s.newDocID()
		s.invoices[inv.ID] = inv
		ref = domain.DocumentRef{ID: inv.ID, Number: inv.Number}
	})
	return ref, err
}

func (s *memStore) FindInvoiceByID(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Invoice, error) {
	var out *domain.Invoice
	s.with(ctx, db, func() {
		if inv, ok := s.invoices[id]; ok {
			out = &inv
		}
	})
	if out == nil {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}

func (s *memStore) SetInvoiceStatus(ctx context.Context, db portsrepo.DBTX, id int64, status string) error {
	var err error
	s.with(ctx, db, func() {
		inv, ok := s.invoices[id]
		if !ok {
			err = apperrors.ErrNotFound
			return
		}
		inv.Status = status
		s.invoices[id] = inv
	})
	return err
}

func (s *memStore) CreatePackingList(ctx context.Context, db portsrepo.DBTX, pl domain.PackingList) (domain.DocumentRef, error) {
	var ref domain.DocumentRef
	s.with(ctx, db, func() {
		pl.ID = s.newDocID()
		s.packingLists[pl.ID] = pl
		ref = domain.DocumentRef{ID: pl.ID, Number: pl.Number}
	})
	return ref, nil
}

func (s *memStore) CreateDeliveryNote(ctx context.Context, db portsrepo.DBTX, dn domain.DeliveryNote) (domain.DocumentRef, error) {
	var ref domain.DocumentRef
	s.with(ctx, db, func() {
		dn.ID = s.newDocID()
		s.deliveryNote[dn.ID] = dn
		ref = domain.DocumentRef{ID: dn.ID, Number: dn.Number}
	})
	return ref, nil
}

func (s *memStore) CreatePostEntry(ctx context.Context, db portsrepo.DBTX, pe domain.PostEntry) (domain.DocumentRef, error) {
	var ref domain.DocumentRef
	s.with(ctx, db, func() {
		pe.ID = s.newDocID()
		s.postEntries[pe.ID] = pe
		ref = domain.DocumentRef{ID: pe.ID, Number: pe.Number}
	})
	return ref, nil
}

var (
	_ portsrepo.TransactionManager           = (*memStore)(nil)
	_ portsrepo.AccountRepositoryFacade      = (*memStore)(nil)
	_ portsrepo.PaymentMappingRepository     = (*memStore)(nil)
	_ portsrepo.VATRuleRepository            = (*memStore)(nil)
	_ portsrepo.PostingRepositoryFacade      = (*memStore)(nil)
	_ portsrepo.BookingFingerprintRepository = (*memStore)(nil)
	_ portsrepo.SequenceRepository           = (*memStore)(nil)
	_ portsrepo.NumberLogRepository          = (*memStore)(nil)
	_ portsrepo.OrderRepositoryFacade        = (*memStore)(nil)
	_ portsrepo.CustomerDirectory            = (*memStore)(nil)
	_ portsrepo.DocumentStore                = (*memStore)(nil)
)

// --- Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.TransitionEvent
}

func (p *recordingPublisher) Publish(evt domain.TransitionEvent) {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
}

func (p *recordingPublisher) Events() []domain.WorkflowEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.WorkflowEvent, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}
