package cartsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotInitialized is returned by line mutations issued before a cart exists.
// AddItem initializes implicitly; UpdateItem and RemoveItem do not.
var ErrNotInitialized = errors.New("cart not initialized")

type api interface {
	CreateCart(ctx context.Context, currency string) (*Cart, error)
	GetCart(ctx context.Context, id string) (*Cart, error)
	AddLine(ctx context.Context, cartID, variantID string, quantity int) (*Cart, error)
	UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (*Cart, error)
}

// Syncer owns the session's local cart state. Mutations apply an optimistic
// local projection, issue the remote call, and then either replace local state
// with the server's authoritative cart or discard the projection by refetching.
// A projection never survives past one round trip.
type Syncer struct {
	api      api
	ids      IDStore
	logger   *slog.Logger
	currency string

	mu          sync.Mutex
	initialized bool
	initErr     error
	cart        Cart
	lastErr     string
	seq         uint64
}

// NewSyncer builds a session-scoped Syncer. currency is used when a new cart
// has to be created.
func NewSyncer(client *Client, ids IDStore, currency string, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{api: client, ids: ids, currency: currency, logger: logger}
}

// Initialize resumes the stored cart or creates a new one. It is idempotent:
// at most one remote create happens per session, even under concurrent calls.
// A create failure is terminal for the session.
func (s *Syncer) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *Syncer) initLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	if s.initErr != nil {
		return s.initErr
	}

	if id, ok, err := s.ids.Load(ctx); err != nil {
		s.logger.Warn("load stored cart id", "error", err)
	} else if ok {
		cart, err := s.api.GetCart(ctx, id)
		if err == nil {
			s.cart = *cart
			s.initialized = true
			return nil
		}
		// Stored cart no longer resolves; forget it and start over.
		s.logger.Info("discarding stored cart id", "cart_id", id, "error", err)
		if cerr := s.ids.Clear(ctx); cerr != nil {
			s.logger.Warn("clear stored cart id", "error", cerr)
		}
	}

	cart, err := s.api.CreateCart(ctx, s.currency)
	if err != nil {
		s.initErr = fmt.Errorf("create cart: %w", err)
		s.lastErr = s.initErr.Error()
		return s.initErr
	}
	if err := s.ids.Save(ctx, cart.ID); err != nil {
		s.logger.Warn("persist cart id", "cart_id", cart.ID, "error", err)
	}
	s.cart = *cart
	s.initialized = true
	return nil
}

// AddItem appends an optimistic zero-cost line for the variant and issues the
// remote add. Quantities below one are treated as one.
func (s *Syncer) AddItem(ctx context.Context, variantID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	if err := s.initLocked(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	op := s.nextOpLocked()
	cartID := s.cart.ID
	prev := s.snapshotLocked()

	// Cost and title are unknown until the server answers.
	pending := Line{
		ID:        "pending:" + uuid.NewString(),
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: Money{Amount: "0.00", CurrencyCode: s.currencyLocked()},
		Cost:      Money{Amount: "0.00", CurrencyCode: s.currencyLocked()},
	}
	s.cart.Lines = append(cloneLines(s.cart.Lines), pending)
	recalc(&s.cart)
	s.mu.Unlock()

	cart, err := s.api.AddLine(ctx, cartID, variantID, quantity)
	return s.reconcile(ctx, op, cartID, prev, cart, err, "add item")
}

// UpdateItem changes a line's quantity. A quantity of zero or less removes
// the line, exactly as RemoveItem would. Fails if no cart exists yet.
func (s *Syncer) UpdateItem(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, lineID)
	}

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	op := s.nextOpLocked()
	cartID := s.cart.ID
	prev := s.snapshotLocked()

	lines := cloneLines(s.cart.Lines)
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = quantity
			break
		}
	}
	s.cart.Lines = lines
	recalc(&s.cart)
	s.mu.Unlock()

	cart, err := s.api.UpdateLine(ctx, cartID, lineID, quantity)
	return s.reconcile(ctx, op, cartID, prev, cart, err, "update item")
}

// RemoveItem drops a line locally and issues the remote removal. Fails if no
// cart exists yet.
func (s *Syncer) RemoveItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	op := s.nextOpLocked()
	cartID := s.cart.ID
	prev := s.snapshotLocked()

	lines := make([]Line, 0, len(s.cart.Lines))
	for _, line := range s.cart.Lines {
		if line.ID != lineID {
			lines = append(lines, line)
		}
	}
	s.cart.Lines = lines
	recalc(&s.cart)
	s.mu.Unlock()

	cart, err := s.api.RemoveLine(ctx, cartID, lineID)
	return s.reconcile(ctx, op, cartID, prev, cart, err, "remove item")
}

// Clear forgets the stored cart identifier and resets local state to an empty
// cart. No remote call is made; the server-side cart is simply abandoned.
func (s *Syncer) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++ // anything still in flight is stale now
	if err := s.ids.Clear(ctx); err != nil {
		return err
	}
	currency := s.currencyLocked()
	s.cart = Cart{
		Cost: Cost{
			SubtotalAmount: Money{Amount: "0.00", CurrencyCode: currency},
			TotalAmount:    Money{Amount: "0.00", CurrencyCode: currency},
		},
	}
	s.initialized = false
	s.initErr = nil
	s.lastErr = ""
	return nil
}

// Snapshot returns a copy of the current local cart for the UI.
func (s *Syncer) Snapshot() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Err returns the message of the last failed operation, empty after any
// successful reconciliation.
func (s *Syncer) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// reconcile resolves an optimistic mutation: on success the server cart
// replaces local state wholesale; on failure the projection is discarded by
// refetching server truth (falling back to the pre-mutation snapshot if even
// the refetch fails). A resolution belonging to a superseded operation leaves
// state alone; the newer operation's reconciliation wins.
func (s *Syncer) reconcile(ctx context.Context, op uint64, cartID string, prev Cart, cart *Cart, err error, action string) error {
	if err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if op == s.seq {
			s.cart = *cart
			s.lastErr = ""
		}
		return nil
	}

	s.logger.Warn(action+" failed, refetching cart", "cart_id", cartID, "error", err)
	fresh, ferr := s.api.GetCart(ctx, cartID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if op == s.seq {
		s.lastErr = action + ": " + userMessage(err)
		if ferr == nil {
			s.cart = *fresh
		} else {
			s.logger.Error("refetch after failed "+action, "cart_id", cartID, "error", ferr)
			s.cart = prev
		}
	}
	return err
}

func (s *Syncer) nextOpLocked() uint64 {
	s.seq++
	return s.seq
}

func (s *Syncer) snapshotLocked() Cart {
	out := s.cart
	out.Lines = cloneLines(s.cart.Lines)
	return out
}

func (s *Syncer) currencyLocked() string {
	if c := s.cart.Cost.TotalAmount.CurrencyCode; c != "" {
		return c
	}
	return s.currency
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

// recalc recomputes per-line costs and cart aggregates from unit prices using
// decimal arithmetic. These values are only a local estimate; the server's
// response overwrites them on the next reconciliation.
func recalc(cart *Cart) {
	subtotal := decimal.Zero
	qty := 0
	currency := cart.Cost.TotalAmount.CurrencyCode
	for i := range cart.Lines {
		line := &cart.Lines[i]
		unit, err := decimal.NewFromString(line.UnitPrice.Amount)
		if err != nil {
			unit = decimal.Zero
		}
		cost := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		line.Cost.Amount = cost.StringFixed(2)
		subtotal = subtotal.Add(cost)
		qty += line.Quantity
		if currency == "" {
			currency = line.UnitPrice.CurrencyCode
		}
	}
	amount := subtotal.StringFixed(2)
	cart.Cost.SubtotalAmount = Money{Amount: amount, CurrencyCode: currency}
	cart.Cost.TotalAmount = Money{Amount: amount, CurrencyCode: currency}
	cart.TotalQuantity = qty
}

// userMessage flattens transport and validation failures into one displayable
// string.
func userMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		return apiErr.Errors[0].Message
	}
	return err.Error()
}
