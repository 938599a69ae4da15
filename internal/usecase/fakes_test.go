package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go-telehealth/internal/domain/entity"
	"go-telehealth/internal/domain/repository"
	"go-telehealth/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// fakeStore is an in-memory stand-in for the database shared by all fake repositories.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	patients      map[uuid.UUID]*entity.PatientProfile
	doctors       map[uuid.UUID]*entity.DoctorProfile
	appointments  map[uuid.UUID]*entity.Appointment
	transactions  map[uuid.UUID]*entity.Transaction
	subscriptions map[uuid.UUID]*entity.Subscription
	audits        []entity.AuditLog
	clock         time.Time

	// failure injection
	failUpdateStatus   error
	failFindLatest     error
	beforeUpdateStatus func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]*entity.User),
		patients:      make(map[uuid.UUID]*entity.PatientProfile),
		doctors:       make(map[uuid.UUID]*entity.DoctorProfile),
		appointments:  make(map[uuid.UUID]*entity.Appointment),
		transactions:  make(map[uuid.UUID]*entity.Transaction),
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
		clock:         time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so ordering by created_at is stable.
func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type fakeSnapshot struct {
	users         map[uuid.UUID]entity.User
	patients      map[uuid.UUID]entity.PatientProfile
	doctors       map[uuid.UUID]entity.DoctorProfile
	appointments  map[uuid.UUID]entity.Appointment
	transactions  map[uuid.UUID]entity.Transaction
	subscriptions map[uuid.UUID]entity.Subscription
	audits        int
}

func (s *fakeStore) snapshot() fakeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := fakeSnapshot{
		users:         make(map[uuid.UUID]entity.User),
		patients:      make(map[uuid.UUID]entity.PatientProfile),
		doctors:       make(map[uuid.UUID]entity.DoctorProfile),
		appointments:  make(map[uuid.UUID]entity.Appointment),
		transactions:  make(map[uuid.UUID]entity.Transaction),
		subscriptions: make(map[uuid.UUID]entity.Subscription),
		audits:        len(s.audits),
	}
	for k, v := range s.users {
		snap.users[k] = *v
	}
	for k, v := range s.patients {
		snap.patients[k] = *v
	}
	for k, v := range s.doctors {
		snap.doctors[k] = *v
	}
	for k, v := range s.appointments {
		snap.appointments[k] = *v
	}
	for k, v := range s.transactions {
		snap.transactions[k] = *v
	}
	for k, v := range s.subscriptions {
		snap.subscriptions[k] = *v
	}
	return snap
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[uuid.UUID]*entity.User)
	for k, v := range snap.users {
		v := v
		s.users[k] = &v
	}
	s.patients = make(map[uuid.UUID]*entity.PatientProfile)
	for k, v := range snap.patients {
		v := v
		s.patients[k] = &v
	}
	s.doctors = make(map[uuid.UUID]*entity.DoctorProfile)
	for k, v := range snap.doctors {
		v := v
		s.doctors[k] = &v
	}
	s.appointments = make(map[uuid.UUID]*entity.Appointment)
	for k, v := range snap.appointments {
		v := v
		s.appointments[k] = &v
	}
	s.transactions = make(map[uuid.UUID]*entity.Transaction)
	for k, v := range snap.transactions {
		v := v
		s.transactions[k] = &v
	}
	s.subscriptions = make(map[uuid.UUID]*entity.Subscription)
	for k, v := range snap.subscriptions {
		v := v
		s.subscriptions[k] = &v
	}
	s.audits = s.audits[:snap.audits]
}

func (s *fakeStore) userCopy(id uuid.UUID) *entity.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	cp.DoctorProfile = nil
	cp.PatientProfile = nil
	return &cp
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// Transactor

type txMarker struct{}

type fakeTransactor struct {
	store *fakeStore
}

// WithinTransaction restores every table to its pre-call state when fn fails.
func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}
	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// Users

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return uniqueViolation("idx_users_email")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	cp.DoctorProfile, cp.PatientProfile = nil, nil
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if u.Email == email {
			return r.s.userCopy(id), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.userCopy(id), nil
}

func (r *fakeUserRepo) FindByIDWithProfile(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user := r.s.userCopy(id)
	if user == nil {
		return nil, nil
	}
	if p, ok := r.s.patients[id]; ok {
		cp := *p
		user.PatientProfile = &cp
	}
	if d, ok := r.s.doctors[id]; ok {
		cp := *d
		user.DoctorProfile = &cp
	}
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[user.ID]
	if !ok {
		return errors.New("user missing")
	}
	stored.FullName = user.FullName
	stored.Phone = user.Phone
	stored.WalletAddress = user.WalletAddress
	stored.Password = user.Password
	stored.UpdatedAt = r.s.tick()
	return nil
}

// Profiles

type fakeDoctorProfileRepo struct{ s *fakeStore }

func (r *fakeDoctorProfileRepo) Create(ctx context.Context, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.doctors {
		if existing.RegistrationID == profile.RegistrationID {
			return uniqueViolation("uni_doctor_profiles_registration_id")
		}
	}
	cp := *profile
	cp.User = entity.User{}
	r.s.doctors[profile.UserID] = &cp
	return nil
}

func (r *fakeDoctorProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[userID]
	if !ok {
		return nil, nil
	}
	cp := *d
	if u := r.s.userCopy(userID); u != nil {
		cp.User = *u
	}
	return &cp, nil
}

func (r *fakeDoctorProfileRepo) FindAll(ctx context.Context, specialization string) ([]entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.DoctorProfile
	for id, d := range r.s.doctors {
		if specialization != "" && !strings.Contains(strings.ToLower(d.Specialization), strings.ToLower(specialization)) {
			continue
		}
		cp := *d
		if u := r.s.userCopy(id); u != nil {
			cp.User = *u
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Specialization < out[j].Specialization })
	return out, nil
}

func (r *fakeDoctorProfileRepo) Update(ctx context.Context, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.doctors[profile.UserID]
	if !ok {
		return errors.New("doctor profile missing")
	}
	stored.Specialization = profile.Specialization
	return nil
}

type fakePatientProfileRepo struct{ s *fakeStore }

func (r *fakePatientProfileRepo) Create(ctx context.Context, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *profile
	r.s.patients[profile.UserID] = &cp
	return nil
}

func (r *fakePatientProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePatientProfileRepo) Update(ctx context.Context, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *profile
	r.s.patients[profile.UserID] = &cp
	return nil
}

// Appointments

type fakeAppointmentRepo struct{ s *fakeStore }

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := r.s.tick()
	appointment.CreatedAt, appointment.UpdatedAt = now, now
	cp := *appointment
	cp.Doctor, cp.Patient = nil, nil
	r.s.appointments[appointment.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) withUsers(a *entity.Appointment) entity.Appointment {
	cp := *a
	cp.Doctor = r.s.userCopy(a.DoctorID)
	cp.Patient = r.s.userCopy(a.PatientID)
	return cp
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := r.withUsers(a)
	return &cp, nil
}

func (r *fakeAppointmentRepo) list(match func(*entity.Appointment) bool) []entity.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if match(a) {
			out = append(out, r.withUsers(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeAppointmentRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.list(func(a *entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *fakeAppointmentRepo) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	return r.list(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, change repository.StatusChange) (int64, error) {
	if r.s.beforeUpdateStatus != nil {
		r.s.beforeUpdateStatus()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdateStatus != nil {
		return 0, r.s.failUpdateStatus
	}
	a, ok := r.s.appointments[change.ID]
	if !ok || a.Status != change.From || a.Version != change.Version {
		return 0, nil
	}
	a.Status = change.To
	a.Version++
	if change.MeetingID != nil {
		id := *change.MeetingID
		a.MeetingID = &id
	}
	a.UpdatedAt = r.s.tick()
	return 1, nil
}

// Transactions

type fakeTransactionRepo struct{ s *fakeStore }

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transactions {
		if existing.Hash == tx.Hash {
			return uniqueViolation("idx_transactions_hash")
		}
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = r.s.tick()
	cp := *tx
	cp.Doctor, cp.Patient = nil, nil
	r.s.transactions[tx.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Doctor = r.s.userCopy(t.DoctorID)
	cp.Patient = r.s.userCopy(t.PatientID)
	return &cp, nil
}

func (r *fakeTransactionRepo) list(match func(*entity.Transaction) bool) []entity.Transaction {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Transaction
	for _, t := range r.s.transactions {
		if match(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeTransactionRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Transaction, error) {
	return r.list(func(t *entity.Transaction) bool { return t.PatientID == patientID }), nil
}

func (r *fakeTransactionRepo) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Transaction, error) {
	return r.list(func(t *entity.Transaction) bool { return t.DoctorID == doctorID }), nil
}

// Subscriptions

type fakeSubscriptionRepo struct{ s *fakeStore }

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.CreatedAt = r.s.tick()
	cp := *sub
	r.s.subscriptions[sub.ID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) FindLatestActive(ctx context.Context, userID uuid.UUID, wallet string, now time.Time) (*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failFindLatest != nil {
		return nil, r.s.failFindLatest
	}
	var latest *entity.Subscription
	for _, sub := range r.s.subscriptions {
		if sub.UserID != userID || sub.WalletAddress != wallet || sub.SubscriptionEnd.Before(now) {
			continue
		}
		if latest == nil || sub.SubscriptionEnd.After(latest.SubscriptionEnd) {
			latest = sub
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeSubscriptionRepo) FindEndingBetween(ctx context.Context, from, to time.Time) ([]entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Subscription
	for _, sub := range r.s.subscriptions {
		if !sub.SubscriptionEnd.Before(from) && !sub.SubscriptionEnd.After(to) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

// Audit

type fakeAuditLogRepo struct{ s *fakeStore }

func (r *fakeAuditLogRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

func (s *fakeStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.audits))
	for i, a := range s.audits {
		actions[i] = a.Action
	}
	return actions
}

// Services

type fakeLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
	err  error // simulates the lock backend being down
}

func (l *fakeLocker) Acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if l.held[id] {
		return nil, service.ErrLockHeld
	}
	l.held[id] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, id)
	}, nil
}

type fakeIDs struct {
	mu sync.Mutex
	n  int
}

func (g *fakeIDs) TransactionHash() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("0x%064x", g.n), nil
}

func (g *fakeIDs) MeetingID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("room%028x", g.n), nil
}

type publishedEvent struct {
	routingKey string
	body       interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{routingKey: routingKey, body: body})
	return nil
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.routingKey
	}
	return keys
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func (f *fakeTokenStore) key(kind service.TokenKind, userID uuid.UUID, tokenID string) string {
	return string(kind) + ":" + userID.String() + ":" + tokenID
}

func (f *fakeTokenStore) Store(ctx context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[f.key(kind, userID, tokenID)] = true
	return nil
}

func (f *fakeTokenStore) Exists(ctx context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[f.key(kind, userID, tokenID)], nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(kind, userID, tokenID)
	live := f.tokens[k]
	delete(f.tokens, k)
	return live, nil
}

// Environment

type testEnv struct {
	store      *fakeStore
	locker     *fakeLocker
	publisher  *fakePublisher
	transactor *fakeTransactor
	users      *fakeUserRepo
	doctors    *fakeDoctorProfileRepo
	patients   *fakePatientProfileRepo
	audit      service.AuditService
	log        *logrus.Logger
	now        time.Time

	appointments  *appointmentUsecase
	subscriptions *subscriptionUsecase
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	log := newTestLogger()
	env := &testEnv{
		store:      store,
		locker:     &fakeLocker{held: make(map[uuid.UUID]bool)},
		publisher:  &fakePublisher{},
		transactor: &fakeTransactor{store: store},
		users:      &fakeUserRepo{s: store},
		doctors:    &fakeDoctorProfileRepo{s: store},
		patients:   &fakePatientProfileRepo{s: store},
		audit:      service.NewAuditService(log, &fakeAuditLogRepo{s: store}),
		log:        log,
		now:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	appointments := NewAppointmentUsecase(
		log,
		env.transactor,
		&fakeAppointmentRepo{s: store},
		&fakeTransactionRepo{s: store},
		env.users,
		env.audit,
		env.locker,
		&fakeIDs{},
		env.publisher,
		"https://meet.example.org/",
	).(*appointmentUsecase)
	appointments.now = clock
	env.appointments = appointments

	subscriptions := NewSubscriptionUsecase(
		log,
		env.transactor,
		&fakeSubscriptionRepo{s: store},
		env.users,
		env.audit,
		env.publisher,
		30*24*time.Hour,
	).(*subscriptionUsecase)
	subscriptions.now = clock
	env.subscriptions = subscriptions

	return env
}

func (e *testEnv) seedUser(t *testing.T, role entity.Role, name, wallet string) *entity.Session {
	t.Helper()
	user := &entity.User{
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Password: "x",
		FullName: name,
		Role:     role,
	}
	if wallet != "" {
		user.WalletAddress = &wallet
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if role == entity.RoleDoctor {
		profile := &entity.DoctorProfile{UserID: user.ID, Specialization: "Cardiology", RegistrationID: "REG-" + user.ID.String()[:8]}
		if err := e.doctors.Create(context.Background(), profile); err != nil {
			t.Fatalf("seed doctor profile: %v", err)
		}
	}
	return &entity.Session{UserID: user.ID, Email: user.Email, Role: role, ConnectedWallet: wallet}
}

func (e *testEnv) storedAppointment(t *testing.T, id uuid.UUID) entity.Appointment {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	a, ok := e.store.appointments[id]
	if !ok {
		t.Fatalf("appointment %s not stored", id)
	}
	return *a
}

func (e *testEnv) transactionCount() int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return len(e.store.transactions)
}
