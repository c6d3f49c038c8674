package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared across the service tests.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byEmail   map[string]*domain.User
	createErr error
	passwords map[string]string // email -> latest hash from UpdatePassword
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:   make(map[string]*domain.User),
		passwords: make(map[string]string),
	}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	u := *user
	u.ID = fmt.Sprintf("user-%d", len(r.byEmail)+1)
	r.byEmail[u.Email] = &u
	return &u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, fullName, phone string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.FullName = fullName
			u.Phone = phone
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, email, passwordHash string) error {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.passwords[u.Email] = passwordHash
	return nil
}

type stubRestaurantRepo struct {
	byID        map[string]*domain.Restaurant
	ratingCalls []string // restaurant ids passed to UpdateRating
}

func newStubRestaurantRepo() *stubRestaurantRepo {
	return &stubRestaurantRepo{byID: make(map[string]*domain.Restaurant)}
}

func (r *stubRestaurantRepo) Create(_ context.Context, rest *domain.Restaurant) (*domain.Restaurant, error) {
	rec := *rest
	rec.ID = fmt.Sprintf("rest-%d", len(r.byID)+1)
	r.byID[rec.ID] = &rec
	return &rec, nil
}

func (r *stubRestaurantRepo) Update(_ context.Context, rest *domain.Restaurant) (*domain.Restaurant, error) {
	if _, ok := r.byID[rest.ID]; !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	rec := *rest
	r.byID[rec.ID] = &rec
	return &rec, nil
}

func (r *stubRestaurantRepo) FindByID(_ context.Context, id string) (*domain.Restaurant, error) {
	if rest, ok := r.byID[id]; ok {
		return rest, nil
	}
	return nil, domain.ErrRestaurantNotFound
}

func (r *stubRestaurantRepo) List(_ context.Context, filter ports.ListRestaurantsFilter) ([]*domain.Restaurant, int64, error) {
	var out []*domain.Restaurant
	for _, rest := range r.byID {
		if filter.OnlyActive && !rest.Active {
			continue
		}
		out = append(out, rest)
	}
	return out, int64(len(out)), nil
}

func (r *stubRestaurantRepo) Nearby(_ context.Context, _, _, _ float64, _ int) ([]*domain.Restaurant, error) {
	var out []*domain.Restaurant
	for _, rest := range r.byID {
		if rest.Active {
			out = append(out, rest)
		}
	}
	return out, nil
}

func (r *stubRestaurantRepo) UpdateRating(_ context.Context, id string, rating float64, count int64) error {
	if rest, ok := r.byID[id]; ok {
		rest.Rating = rating
		rest.ReviewCount = count
	}
	r.ratingCalls = append(r.ratingCalls, id)
	return nil
}

type stubMenuRepo struct {
	items map[string]*domain.MenuItem
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{items: make(map[string]*domain.MenuItem)}
}

func (r *stubMenuRepo) CreateItem(_ context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	rec := *item
	rec.ID = fmt.Sprintf("item-%d", len(r.items)+1)
	r.items[rec.ID] = &rec
	return &rec, nil
}

func (r *stubMenuRepo) UpdateItem(_ context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if _, ok := r.items[item.ID]; !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	rec := *item
	r.items[rec.ID] = &rec
	return &rec, nil
}

func (r *stubMenuRepo) DeleteItem(_ context.Context, restaurantID, itemID string) error {
	item, ok := r.items[itemID]
	if !ok || item.RestaurantID != restaurantID {
		return domain.ErrMenuItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *stubMenuRepo) FindItemByID(_ context.Context, id string) (*domain.MenuItem, error) {
	if item, ok := r.items[id]; ok {
		return item, nil
	}
	return nil, domain.ErrMenuItemNotFound
}

func (r *stubMenuRepo) FindItemsByIDs(_ context.Context, ids []string) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubMenuRepo) ListByRestaurant(_ context.Context, restaurantID string, onlyAvailable bool) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, item := range r.items {
		if item.RestaurantID != restaurantID {
			continue
		}
		if onlyAvailable && !item.Available {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type stubCartRepo struct {
	carts   map[string]*domain.Cart // by user id
	deleted []string                // user ids passed to Delete
	saveErr error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *stubCartRepo) FindByUser(_ context.Context, userID string) (*domain.Cart, error) {
	if cart, ok := r.carts[userID]; ok {
		return cart, nil
	}
	return nil, domain.ErrCartNotFound
}

func (r *stubCartRepo) Save(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	rec := *cart
	if rec.ID == "" {
		rec.ID = "cart-" + rec.UserID
	}
	r.carts[rec.UserID] = &rec
	return &rec, nil
}

func (r *stubCartRepo) Delete(_ context.Context, userID string) error {
	delete(r.carts, userID)
	r.deleted = append(r.deleted, userID)
	return nil
}

type stubOrderRepo struct {
	byID      map[string]*domain.Order
	createErr error
	statusLog []string // "<id>:<status>" per UpdateStatus call
	paid      []string // ids passed to MarkPaid
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	rec := *o
	rec.ID = fmt.Sprintf("order-%d", len(r.byID)+1)
	r.byID[rec.ID] = &rec
	return &rec, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	if o, ok := r.byID[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) FindByReference(_ context.Context, reference string) (*domain.Order, error) {
	for _, o := range r.byID {
		if o.Reference == reference {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) List(_ context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range r.byID {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.RestaurantID != "" && o.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	r.statusLog = append(r.statusLog, id+":"+string(status))
	return nil
}

func (r *stubOrderRepo) MarkPaid(_ context.Context, id string) error {
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.PaymentStatus != domain.PaymentUnpaid {
		return domain.ErrOrderNotPayable
	}
	o.PaymentStatus = domain.PaymentPaid
	r.paid = append(r.paid, id)
	return nil
}

type stubPaymentRepo struct {
	inserted  []*domain.Payment
	insertErr error
}

func (r *stubPaymentRepo) Insert(_ context.Context, p *domain.Payment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, existing := range r.inserted {
		if existing.ProviderTxID == p.ProviderTxID {
			return domain.ErrDuplicatePayment
		}
	}
	r.inserted = append(r.inserted, p)
	return nil
}

func (r *stubPaymentRepo) FindByProviderTxID(_ context.Context, providerTxID int64) (*domain.Payment, error) {
	for _, p := range r.inserted {
		if p.ProviderTxID == providerTxID {
			return p, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []int64
}

func (d *stubDedup) IsDuplicate(_ context.Context, providerTxID int64) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, providerTxID int64) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, providerTxID)
	return nil
}

type stubReviewRepo struct {
	byOrder map[string]*domain.Review
	avg     float64
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{byOrder: make(map[string]*domain.Review)}
}

func (r *stubReviewRepo) Insert(_ context.Context, review *domain.Review) (*domain.Review, error) {
	if _, ok := r.byOrder[review.OrderID]; ok {
		return nil, domain.ErrReviewExists
	}
	rec := *review
	rec.ID = fmt.Sprintf("review-%d", len(r.byOrder)+1)
	r.byOrder[rec.OrderID] = &rec
	return &rec, nil
}

func (r *stubReviewRepo) ListByRestaurant(_ context.Context, restaurantID string, _, _ int) ([]*domain.Review, int64, error) {
	var out []*domain.Review
	for _, rev := range r.byOrder {
		if rev.RestaurantID == restaurantID {
			out = append(out, rev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubReviewRepo) Aggregate(_ context.Context, restaurantID string) (float64, int64, error) {
	var count int64
	for _, rev := range r.byOrder {
		if rev.RestaurantID == restaurantID {
			count++
		}
	}
	return r.avg, count, nil
}

type stubOTPStore struct {
	byEmail map[string]*domain.PasswordResetOTP
	deleted []string // ids passed to Delete
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{byEmail: make(map[string]*domain.PasswordResetOTP)}
}

func (r *stubOTPStore) Replace(_ context.Context, otp *domain.PasswordResetOTP) error {
	rec := *otp
	r.byEmail[rec.Email] = &rec
	return nil
}

func (r *stubOTPStore) FindByEmail(_ context.Context, email string) (*domain.PasswordResetOTP, error) {
	if otp, ok := r.byEmail[email]; ok {
		return otp, nil
	}
	return nil, domain.ErrOTPNotFound
}

func (r *stubOTPStore) IncrementAttempts(_ context.Context, id string) error {
	for _, otp := range r.byEmail {
		if otp.ID == id {
			otp.Attempts++
			return nil
		}
	}
	return domain.ErrOTPNotFound
}

func (r *stubOTPStore) Delete(_ context.Context, id string) error {
	for email, otp := range r.byEmail {
		if otp.ID == id {
			delete(r.byEmail, email)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return nil
}

func (r *stubOTPStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for email, otp := range r.byEmail {
		if otp.Expired(now) {
			delete(r.byEmail, email)
			n++
		}
	}
	return n, nil
}

type stubMailer struct {
	sentTo   []string
	lastCode string
	sendErr  error
}

func (m *stubMailer) SendPasswordResetCode(_ context.Context, to, code string, _ time.Duration) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = append(m.sentTo, to)
	m.lastCode = code
	return nil
}

type stubLimiter struct {
	denied   bool
	allowErr error
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	if l.allowErr != nil {
		return false, l.allowErr
	}
	return !l.denied, nil
}
