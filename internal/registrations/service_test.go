package registrations

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"campusevents/internal/events"
	"campusevents/internal/ledger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store. A single mutex plays the role of the
// event row lock: every WithEventTx body runs fully serialized, which is
// exactly the guarantee the real store gets from FOR UPDATE.
type fakeStore struct {
	mu               sync.Mutex
	event            ledger.LockedEvent
	regs             map[uuid.UUID]*Registration
	cancelledTickets map[uuid.UUID]int
}

func newFakeStore(status events.Status, totalCapacity int) *fakeStore {
	return &fakeStore{
		event: ledger.LockedEvent{
			ID:            uuid.New(),
			Status:        string(status),
			TotalCapacity: totalCapacity,
			Capacity:      totalCapacity,
		},
		regs:             make(map[uuid.UUID]*Registration),
		cancelledTickets: make(map[uuid.UUID]int),
	}
}

func (s *fakeStore) GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[id]
	if !ok {
		return nil, ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var regs []Registration
	for _, reg := range s.regs {
		if reg.UserID == userID {
			regs = append(regs, *reg)
		}
	}
	return regs, nil
}

func (s *fakeStore) ListConfirmedByEvent(ctx context.Context, eventID uuid.UUID) ([]Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var regs []Registration
	for _, reg := range s.regs {
		if reg.EventID == eventID && reg.IsConfirmed() {
			regs = append(regs, *reg)
		}
	}
	return regs, nil
}

func (s *fakeStore) WithEventTx(ctx context.Context, eventID uuid.UUID, fn func(tx EventTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eventID != s.event.ID {
		return ledger.ErrEventNotFound
	}

	// Snapshot for rollback, mirroring transaction semantics.
	eventBefore := s.event
	regsBefore := make(map[uuid.UUID]*Registration, len(s.regs))
	for id, reg := range s.regs {
		copied := *reg
		regsBefore[id] = &copied
	}

	if err := fn(&fakeEventTx{store: s}); err != nil {
		s.event = eventBefore
		s.regs = regsBefore
		return err
	}
	return nil
}

// waitlistOrder returns the event's queue in FIFO order.
func (s *fakeStore) waitlistOrder() []ledger.Entry {
	var queue []ledger.Entry
	for _, reg := range s.regs {
		if reg.EventID == s.event.ID && reg.IsWaitlisted() {
			queue = append(queue, ledger.Entry{
				RegistrationID: reg.ID,
				UserID:         reg.UserID,
				Quantity:       reg.Quantity,
				CreatedAt:      reg.CreatedAt,
			})
		}
	}
	sort.Slice(queue, func(i, j int) bool {
		if queue[i].CreatedAt.Equal(queue[j].CreatedAt) {
			return queue[i].RegistrationID.String() < queue[j].RegistrationID.String()
		}
		return queue[i].CreatedAt.Before(queue[j].CreatedAt)
	})
	return queue
}

type fakeEventTx struct {
	store *fakeStore
}

func (t *fakeEventTx) Event() *ledger.LockedEvent {
	return &t.store.event
}

func (t *fakeEventTx) ActiveRegistration(userID uuid.UUID) (*Registration, error) {
	for _, reg := range t.store.regs {
		if reg.UserID == userID && reg.EventID == t.store.event.ID && !reg.IsCancelled() {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, nil
}

func (t *fakeEventTx) RegistrationForUpdate(id uuid.UUID) (*Registration, error) {
	reg, ok := t.store.regs[id]
	if !ok {
		return nil, ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (t *fakeEventTx) Create(reg *Registration) error {
	copied := *reg
	t.store.regs[reg.ID] = &copied
	return nil
}

func (t *fakeEventTx) Update(reg *Registration) error {
	copied := *reg
	t.store.regs[reg.ID] = &copied
	return nil
}

func (t *fakeEventTx) Reserve(quantity int) (ledger.Outcome, error) {
	outcome, remaining, err := ledger.Reserve(t.store.event.Capacity, len(t.store.waitlistOrder()), quantity)
	if err != nil {
		return "", err
	}
	t.store.event.Capacity = remaining
	return outcome, nil
}

func (t *fakeEventTx) Release(freed int) error {
	t.store.event.Capacity = ledger.Release(t.store.event.Capacity, t.store.event.TotalCapacity, freed)
	return nil
}

func (t *fakeEventTx) Promote(policy ledger.Policy) ([]ledger.Promotion, error) {
	promotions, remaining := ledger.Plan(t.store.event.Capacity, t.store.waitlistOrder(), policy)
	now := time.Now()
	for _, p := range promotions {
		reg := t.store.regs[p.RegistrationID]
		reg.Status = StatusConfirmed
		reg.ConfirmedAt = &now
	}
	t.store.event.Capacity = remaining
	return promotions, nil
}

func (t *fakeEventTx) QueueLength() (int, error) {
	return len(t.store.waitlistOrder()), nil
}

func (t *fakeEventTx) CancelTickets(registrationID uuid.UUID) (int64, error) {
	t.store.cancelledTickets[registrationID]++
	return 0, nil
}

func newTestService(store Store) Service {
	return NewService(store, &ServiceConfig{
		MaxQuantityPerUser: 5,
		PromotionPolicy:    ledger.PolicyStrictFIFO,
	})
}

func register(t *testing.T, svc Service, store *fakeStore, quantity int) *RegistrationResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), uuid.New(), store.event.ID, quantity)
	require.NoError(t, err)
	return resp
}

func TestRegister_ConfirmsWithinCapacity(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 10)
	svc := newTestService(store)

	resp := register(t, svc, store, 3)

	assert.Equal(t, StatusConfirmed, resp.Status)
	assert.NotNil(t, resp.ConfirmedAt)
	assert.Equal(t, 0, resp.Position)
	assert.Equal(t, 7, store.event.Capacity)
}

func TestRegister_WaitlistsWhenFull(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 3)
	svc := newTestService(store)

	register(t, svc, store, 3)
	resp := register(t, svc, store, 2)

	assert.Equal(t, StatusWaitlisted, resp.Status)
	assert.Nil(t, resp.ConfirmedAt)
	assert.Equal(t, 1, resp.Position)
	assert.Equal(t, 0, store.event.Capacity, "waitlisting must not consume capacity")
}

func TestRegister_WaitlistPositionsAreSequential(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 1)
	svc := newTestService(store)

	register(t, svc, store, 1)
	first := register(t, svc, store, 2)
	second := register(t, svc, store, 2)

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
}

func TestRegister_RejectsClosedEvent(t *testing.T) {
	for _, status := range []events.Status{events.StatusOngoing, events.StatusCompleted, events.StatusCancelled} {
		store := newFakeStore(status, 10)
		svc := newTestService(store)

		_, err := svc.Register(context.Background(), uuid.New(), store.event.ID, 1)

		assert.ErrorIs(t, err, events.ErrEventClosed)
		assert.Equal(t, 10, store.event.Capacity)
	}
}

func TestRegister_RejectsDuplicateActiveRegistration(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 10)
	svc := newTestService(store)
	userID := uuid.New()

	_, err := svc.Register(context.Background(), userID, store.event.ID, 2)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), userID, store.event.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 8, store.event.Capacity, "rejected attempt must not touch capacity")
}

func TestRegister_AllowsReRegisterAfterCancel(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 10)
	svc := newTestService(store)
	userID := uuid.New()

	resp, err := svc.Register(context.Background(), userID, store.event.ID, 2)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), resp.ID, userID)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), userID, store.event.ID, 1)
	assert.NoError(t, err)
}

func TestRegister_QuantityValidation(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 10)
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), uuid.New(), store.event.ID, 0)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	_, err = svc.Register(context.Background(), uuid.New(), store.event.ID, 6)
	assert.ErrorIs(t, err, ErrQuantityTooLarge)
}

func TestRegister_UnknownEvent(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 10)
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), uuid.New(), uuid.New(), 1)
	assert.ErrorIs(t, err, ledger.ErrEventNotFound)
}

func TestCancel_ConfirmedFreesCapacityAndPromotes(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 4)
	svc := newTestService(store)

	holder := register(t, svc, store, 4)
	waiting := register(t, svc, store, 3)
	require.Equal(t, StatusWaitlisted, waiting.Status)

	resp, err := svc.Cancel(context.Background(), holder.ID, holder.UserID)
	require.NoError(t, err)

	assert.Equal(t, 4, resp.FreedSeats)
	require.Len(t, resp.Promoted, 1)
	assert.Equal(t, waiting.ID, resp.Promoted[0].RegistrationID)
	assert.Equal(t, 1, resp.RemainingCapacity)

	promoted, err := svc.GetRegistration(context.Background(), waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, promoted.Status)
	assert.NotNil(t, promoted.ConfirmedAt)
}

func TestCancel_PromotionStopsAtFirstUnfit(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 3)
	svc := newTestService(store)

	holder := register(t, svc, store, 2)
	bigWait := register(t, svc, store, 3)
	smallWait := register(t, svc, store, 1)

	// Cancelling 2 seats leaves 3 free; the head wants 3 and fits, the
	// next wants 1 but nothing is left.
	resp, err := svc.Cancel(context.Background(), holder.ID, holder.UserID)
	require.NoError(t, err)

	require.Len(t, resp.Promoted, 1)
	assert.Equal(t, bigWait.ID, resp.Promoted[0].RegistrationID)

	still, err := svc.GetRegistration(context.Background(), smallWait.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, still.Status)
}

func TestCancel_StrictFIFOHeadBlocksSmallerEntries(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 4)
	svc := newTestService(store)

	holder := register(t, svc, store, 1)
	register(t, svc, store, 3) // fills the rest
	bigWait := register(t, svc, store, 5)
	smallWait := register(t, svc, store, 1)
	require.Equal(t, 1, bigWait.Position)
	require.Equal(t, 2, smallWait.Position)

	// Only 1 seat frees up. The head needs 5, so nobody is promoted even
	// though the second entry would fit.
	resp, err := svc.Cancel(context.Background(), holder.ID, holder.UserID)
	require.NoError(t, err)

	assert.Empty(t, resp.Promoted)
	assert.Equal(t, 1, resp.RemainingCapacity)
}

func TestCancel_BestFitSkipsOversizedHead(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 4)
	svc := NewService(store, &ServiceConfig{
		MaxQuantityPerUser: 5,
		PromotionPolicy:    ledger.PolicyBestFit,
	})

	holder, err := svc.Register(context.Background(), uuid.New(), store.event.ID, 1)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), uuid.New(), store.event.ID, 3)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), uuid.New(), store.event.ID, 5)
	require.NoError(t, err)
	smallWait, err := svc.Register(context.Background(), uuid.New(), store.event.ID, 1)
	require.NoError(t, err)

	resp, err := svc.Cancel(context.Background(), holder.ID, holder.UserID)
	require.NoError(t, err)

	require.Len(t, resp.Promoted, 1)
	assert.Equal(t, smallWait.ID, resp.Promoted[0].RegistrationID)
}

func TestCancel_WaitlistedLeavesCapacityAndOrderIntact(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 2)
	svc := newTestService(store)

	register(t, svc, store, 2)
	first := register(t, svc, store, 1)
	second := register(t, svc, store, 1)
	third := register(t, svc, store, 1)

	resp, err := svc.Cancel(context.Background(), second.ID, second.UserID)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.FreedSeats)
	assert.Empty(t, resp.Promoted)
	assert.Equal(t, 0, store.event.Capacity)

	// Remaining entries keep their relative order.
	queue := store.waitlistOrder()
	require.Len(t, queue, 2)
	assert.Equal(t, first.ID, queue[0].RegistrationID)
	assert.Equal(t, third.ID, queue[1].RegistrationID)
}

func TestCancel_Idempotence(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 5)
	svc := newTestService(store)

	reg := register(t, svc, store, 2)

	_, err := svc.Cancel(context.Background(), reg.ID, reg.UserID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), reg.ID, reg.UserID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 5, store.event.Capacity, "double cancel must not release seats twice")
}

func TestCancel_OwnershipEnforced(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 5)
	svc := newTestService(store)

	reg := register(t, svc, store, 2)

	_, err := svc.Cancel(context.Background(), reg.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwner)

	// Admin path skips the ownership check.
	_, err = svc.CancelInternal(context.Background(), reg.ID)
	assert.NoError(t, err)
}

func TestCancel_VoidsTickets(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 5)
	svc := newTestService(store)

	reg := register(t, svc, store, 2)

	_, err := svc.Cancel(context.Background(), reg.ID, reg.UserID)
	require.NoError(t, err)

	assert.Equal(t, 1, store.cancelledTickets[reg.ID])
}

func TestCancel_NotFound(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 5)
	svc := newTestService(store)

	_, err := svc.Cancel(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestRegister_ConcurrentRequestsNeverOversell(t *testing.T) {
	const (
		capacity = 10
		callers  = 50
	)
	store := newFakeStore(events.StatusUpcoming, capacity)
	svc := newTestService(store)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), uuid.New(), store.event.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	confirmedSeats := 0
	waitlisted := 0
	for _, reg := range store.regs {
		switch reg.Status {
		case StatusConfirmed:
			confirmedSeats += reg.Quantity
		case StatusWaitlisted:
			waitlisted++
		}
	}

	assert.Equal(t, capacity, confirmedSeats, "every seat is sold exactly once")
	assert.Equal(t, callers-capacity, waitlisted)
	assert.Equal(t, 0, store.event.Capacity)
	assert.Equal(t, confirmedSeats, store.event.TotalCapacity-store.event.Capacity)
}

type recordingNotifier struct {
	mu         sync.Mutex
	confirmed  []uuid.UUID
	waitlisted []uuid.UUID
	cancelled  []uuid.UUID
	promoted   []ledger.Promotion
}

func (n *recordingNotifier) RegistrationConfirmed(ctx context.Context, reg *Registration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, reg.ID)
}

func (n *recordingNotifier) RegistrationWaitlisted(ctx context.Context, reg *Registration, position int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.waitlisted = append(n.waitlisted, reg.ID)
}

func (n *recordingNotifier) RegistrationCancelled(ctx context.Context, reg *Registration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, reg.ID)
}

func (n *recordingNotifier) WaitlistPromoted(ctx context.Context, eventID uuid.UUID, promotions []ledger.Promotion) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.promoted = append(n.promoted, promotions...)
}

func TestNotifier_ReceivesLifecycleEvents(t *testing.T) {
	store := newFakeStore(events.StatusUpcoming, 2)
	svc := newTestService(store)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	holder := register(t, svc, store, 2)
	waiting := register(t, svc, store, 1)

	_, err := svc.Cancel(context.Background(), holder.ID, holder.UserID)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{holder.ID}, notifier.confirmed)
	assert.Equal(t, []uuid.UUID{waiting.ID}, notifier.waitlisted)
	assert.Equal(t, []uuid.UUID{holder.ID}, notifier.cancelled)
	require.Len(t, notifier.promoted, 1)
	assert.Equal(t, waiting.ID, notifier.promoted[0].RegistrationID)
}
