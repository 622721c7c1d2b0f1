package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openclinic/vaxsched/pkg/core/model"
	"github.com/openclinic/vaxsched/pkg/core/session"
)

// fakeReservationStore holds in-memory ledgers and hands out fake
// transactions that stage writes until Commit.
type fakeReservationStore struct {
	doses        map[string]int
	slots        map[string][]string // date -> caregiver usernames
	appointments map[int]model.Appointment

	// error injection
	adjustErr  error
	consumeErr error
	restoreErr error

	lastTx *fakeReservationTx
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{
		doses:        make(map[string]int),
		slots:        make(map[string][]string),
		appointments: make(map[int]model.Appointment),
	}
}

func (s *fakeReservationStore) BeginReservation(ctx context.Context) (ReservationTx, error) {
	tx := &fakeReservationTx{store: s}
	s.lastTx = tx
	return tx, nil
}

type stagedWrite func(s *fakeReservationStore)

type fakeReservationTx struct {
	store      *fakeReservationStore
	staged     []stagedWrite
	committed  bool
	rolledBack bool
}

func dateKey(date time.Time) string {
	return date.Format(model.DateLayout)
}

func (tx *fakeReservationTx) VaccineDoses(ctx context.Context, name string) (int, error) {
	doses, ok := tx.store.doses[name]
	if !ok {
		return 0, ErrUnknownVaccine
	}
	return doses, nil
}

func (tx *fakeReservationTx) FirstFreeCaregiver(ctx context.Context, date time.Time) (string, error) {
	free := append([]string(nil), tx.store.slots[dateKey(date)]...)
	if len(free) == 0 {
		return "", ErrNoCaregiver
	}
	// the store contract: ascending lexicographic, first wins
	sort.Strings(free)
	return free[0], nil
}

func (tx *fakeReservationTx) NextAppointmentID(ctx context.Context) (int, error) {
	max := 0
	for id := range tx.store.appointments {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func (tx *fakeReservationTx) InsertAppointment(ctx context.Context, appt model.Appointment) error {
	tx.staged = append(tx.staged, func(s *fakeReservationStore) {
		s.appointments[appt.ID] = appt
	})
	return nil
}

func (tx *fakeReservationTx) AppointmentByID(ctx context.Context, id int) (*model.Appointment, error) {
	appt, ok := tx.store.appointments[id]
	if !ok {
		return nil, ErrUnknownAppointment
	}
	return &appt, nil
}

func (tx *fakeReservationTx) DeleteAppointment(ctx context.Context, id int) error {
	tx.staged = append(tx.staged, func(s *fakeReservationStore) {
		delete(s.appointments, id)
	})
	return nil
}

func (tx *fakeReservationTx) ConsumeSlot(ctx context.Context, caregiver string, date time.Time) error {
	if tx.store.consumeErr != nil {
		return tx.store.consumeErr
	}
	tx.staged = append(tx.staged, func(s *fakeReservationStore) {
		key := dateKey(date)
		var kept []string
		for _, username := range s.slots[key] {
			if username != caregiver {
				kept = append(kept, username)
			}
		}
		s.slots[key] = kept
	})
	return nil
}

func (tx *fakeReservationTx) RestoreSlot(ctx context.Context, caregiver string, date time.Time) error {
	if tx.store.restoreErr != nil {
		return tx.store.restoreErr
	}
	tx.staged = append(tx.staged, func(s *fakeReservationStore) {
		key := dateKey(date)
		s.slots[key] = append(s.slots[key], caregiver)
	})
	return nil
}

func (tx *fakeReservationTx) AdjustDoses(ctx context.Context, name string, delta int) error {
	if tx.store.adjustErr != nil {
		return tx.store.adjustErr
	}
	if tx.store.doses[name]+delta < 0 {
		return ErrNoDoses
	}
	tx.staged = append(tx.staged, func(s *fakeReservationStore) {
		s.doses[name] += delta
	})
	return nil
}

func (tx *fakeReservationTx) Commit(ctx context.Context) error {
	for _, apply := range tx.staged {
		apply(tx.store)
	}
	tx.committed = true
	return nil
}

func (tx *fakeReservationTx) Rollback(ctx context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	tx.staged = nil
	return nil
}

func patientSession(t *testing.T, username string) *session.Session {
	t.Helper()
	sess := session.New()
	require.NoError(t, sess.Login(model.KindPatient, username))
	return sess
}

func caregiverSession(t *testing.T, username string) *session.Session {
	t.Helper()
	sess := session.New()
	require.NoError(t, sess.Login(model.KindCaregiver, username))
	return sess
}

func TestReserve_Success(t *testing.T) {
	store := newFakeReservationStore()
	store.doses["pfizer"] = 5
	store.slots["2024-06-01"] = []string{"cg1"}

	result, err := Reserve(context.Background(), store, patientSession(t, "p1"), zap.NewNop(), "2024-06-01", "pfizer")
	require.NoError(t, err)

	assert.Equal(t, 1, result.AppointmentID)
	assert.Equal(t, "cg1", result.Caregiver)
	assert.True(t, store.lastTx.committed)

	// post-state: appointment linked, slot consumed, one dose fewer
	appt := store.appointments[1]
	assert.Equal(t, "p1", appt.Patient)
	assert.Equal(t, "cg1", appt.Caregiver)
	assert.Equal(t, "pfizer", appt.Vaccine)
	assert.Empty(t, store.slots["2024-06-01"])
	assert.Equal(t, 4, store.doses["pfizer"])
}

func TestReserve_LexicographicTieBreak(t *testing.T) {
	store := newFakeReservationStore()
	store.doses["pfizer"] = 5
	// cgZ published first; cgA must still win
	store.slots["2024-06-01"] = []string{"cgZ", "cgA"}

	result, err := Reserve(context.Background(), store, patientSession(t, "p1"), zap.NewNop(), "2024-06-01", "pfizer")
	require.NoError(t, err)
	assert.Equal(t, "cgA", result.Caregiver)
	assert.Equal(t, []string{"cgZ"}, store.slots["2024-06-01"])
}

func TestReserve_RequiresPatient(t *testing.T) {
	store := newFakeReservationStore()

	_, err := Reserve(context.Background(), store, session.New(), zap.NewNop(), "2024-06-01", "pfizer")
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)

	_, err = Reserve(context.Background(), store, caregiverSession(t, "cg1"), zap.NewNop(), "2024-06-01", "pfizer")
	assert.ErrorIs(t, err, session.ErrWrongKind)

	// the store is never touched on an authorization failure
	assert.Nil(t, store.lastTx)
}

func TestReserve_InvalidDate(t *testing.T) {
	store := newFakeReservationStore()

	_, err := Reserve(context.Background(), store, patientSession(t, "p1"), zap.NewNop(), "01/06/2024", "pfizer")
	assert.Error(t, err)
	assert.Nil(t, store.lastTx)
}

func TestReserve_UnknownVaccine(t *testing.T) {
	store := newFakeReservationStore()
	store.slots["2024-06-01"] = []string{"cg1"}

	_, err := Reserve(context.Background(), store, patientSession(t, "p1"), zap.NewNop(), "2024-06-01", "moderna")
	assert.ErrorIs(t, err, ErrUnknownVaccine)
	assert.True(t, store.lastTx.rolledBack)
	assert.Empty(t, store.appointments)
}

func TestReserve_ZeroDoses(t *testing.T) {
	store := newFakeReservationStore()
	store.doses["pfizer"] = 0
	store.slots["2024-06-01"] = []string{"cg1"}

	_, err := Reserve(context.Background(), store, patientSession(t, "p1"), zap.NewNop(), "2024-06-01", "pfizer")
	assert.ErrorIs(t, err, ErrNoDoses)

	// no mutation of any ledger
	assert.Empty(t, store.appointments)
	assert.Equal(t, []string{"cg1"}, store.slots["2024-06-01"])
	assert.Equal(t, 0, store.doses["pfizer"])
}

func TestReserve_NoCaregiver(t *testing.T) {
	store := newFakeReservationStore()
	store.doses["pfizer"] = 5

	_, err := Reserve(context.Background(), store, patientSession(t, "p1"), zap.NewNop(), "2024-06-01", "pfizer")
	assert.ErrorIs(t, err, ErrNoCaregiver)
	assert.True(t, store.lastTx.rolledBack)
	assert.Equal(t, 5, store.doses["pfizer"])
}

func TestReserve_RollbackOnSlotFailure(t *testing.T) {
	store := newFakeReservationStore()
	store.doses["pfizer"] = 5
	store.slots["2024-06-01"] = []string{"cg1"}
	store.consumeErr = assert.AnError

	_, err := Reserve(context.Background(), store, patientSession(t, "p1"), zap.NewNop(), "2024-06-01", "pfizer")
	require.Error(t, err)

	// the appointment insert staged before the failure is undone with it
	assert.True(t, store.lastTx.rolledBack)
	assert.False(t, store.lastTx.committed)
	assert.Empty(t, store.appointments)
	assert.Equal(t, 5, store.doses["pfizer"])
}

func TestReserve_IDsMonotonic(t *testing.T) {
	store := newFakeReservationStore()
	store.doses["pfizer"] = 5
	store.slots["2024-06-01"] = []string{"cg1"}
	store.slots["2024-06-02"] = []string{"cg1"}

	sess := patientSession(t, "p1")

	first, err := Reserve(context.Background(), store, sess, zap.NewNop(), "2024-06-01", "pfizer")
	require.NoError(t, err)
	second, err := Reserve(context.Background(), store, sess, zap.NewNop(), "2024-06-02", "pfizer")
	require.NoError(t, err)

	assert.Equal(t, 1, first.AppointmentID)
	assert.Equal(t, 2, second.AppointmentID)

	// cancelling an earlier id never causes reuse
	_, err = Cancel(context.Background(), store, sess, zap.NewNop(), "1")
	require.NoError(t, err)

	third, err := Reserve(context.Background(), store, sess, zap.NewNop(), "2024-06-01", "pfizer")
	require.NoError(t, err)
	assert.Equal(t, 3, third.AppointmentID)
}
