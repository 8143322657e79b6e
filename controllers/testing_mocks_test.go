package controllers

import (
	"context"
	"sync"

	"go-food-ordering/events"
	"go-food-ordering/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserStore is a mock implementation of UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

// MockCompanyStore is a mock implementation of CompanyStore
type MockCompanyStore struct {
	mock.Mock
}

func (m *MockCompanyStore) FindAll(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Company), args.Error(1)
}

func (m *MockCompanyStore) FindManaged(ctx context.Context, companyID, userID primitive.ObjectID) (*models.Company, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyStore) FindForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Company), args.Error(1)
}

// MockRestaurantStore is a mock implementation of RestaurantStore
type MockRestaurantStore struct {
	mock.Mock
}

func (m *MockRestaurantStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func (m *MockRestaurantStore) FindManaged(ctx context.Context, restaurantID, userID primitive.ObjectID) (*models.Restaurant, error) {
	args := m.Called(ctx, restaurantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func (m *MockRestaurantStore) FindByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]models.Restaurant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Restaurant), args.Error(1)
}

func (m *MockRestaurantStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Restaurant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Restaurant), args.Error(1)
}

func (m *MockRestaurantStore) AddMenuItem(ctx context.Context, restaurantID primitive.ObjectID, item *models.MenuItem) error {
	args := m.Called(ctx, restaurantID, item)
	if args.Error(0) == nil {
		item.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *MockRestaurantStore) UpdateMenuItem(ctx context.Context, restaurantID, itemID primitive.ObjectID, patch models.MenuItemPatch) (*models.Restaurant, error) {
	args := m.Called(ctx, restaurantID, itemID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

// MockOrderStore is a mock implementation of OrderStore
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *MockOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) FindByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]models.Order, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) FindByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Order, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// MockCartStore is a mock implementation of CartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, tenantID, userID primitive.ObjectID) (*models.Cart, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, cart *models.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *MockCartStore) Delete(ctx context.Context, tenantID, userID primitive.ObjectID) error {
	return m.Called(ctx, tenantID, userID).Error(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(user *models.User, tenantID string) (string, error) {
	args := m.Called(user, tenantID)
	return args.String(0), args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingNotifier struct {
	mu       sync.Mutex
	messages []Message
	tenants  []primitive.ObjectID
}

func (n *recordingNotifier) Broadcast(tenantID primitive.ObjectID, message Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tenants = append(n.tenants, tenantID)
	n.messages = append(n.messages, message)
}

type nopLogger struct{}

func (nopLogger) Debug(...interface{}) {}
func (nopLogger) Info(...interface{})  {}
func (nopLogger) Warn(...interface{})  {}
func (nopLogger) Error(...interface{}) {}
func (nopLogger) Fatal(...interface{}) {}

// testDeps bundles fresh mocks for one test.
type testDeps struct {
	users       *MockUserStore
	companies   *MockCompanyStore
	restaurants *MockRestaurantStore
	orders      *MockOrderStore
	carts       *MockCartStore
	tokens      *MockTokenIssuer
	publisher   *recordingPublisher
	notifier    *recordingNotifier
}

func newTestDeps() *testDeps {
	return &testDeps{
		users:       new(MockUserStore),
		companies:   new(MockCompanyStore),
		restaurants: new(MockRestaurantStore),
		orders:      new(MockOrderStore),
		carts:       new(MockCartStore),
		tokens:      new(MockTokenIssuer),
		publisher:   &recordingPublisher{},
		notifier:    &recordingNotifier{},
	}
}

func (d *testDeps) dependencies() Dependencies {
	return Dependencies{
		Users:       d.users,
		Companies:   d.companies,
		Restaurants: d.restaurants,
		Orders:      d.orders,
		Carts:       d.carts,
		Tokens:      d.tokens,
		Publisher:   d.publisher,
		Notifier:    d.notifier,
		Log:         nopLogger{},
		BcryptCost:  4,
	}
}

func (d *testDeps) assertExpectations(t mock.TestingT) {
	d.users.AssertExpectations(t)
	d.companies.AssertExpectations(t)
	d.restaurants.AssertExpectations(t)
	d.orders.AssertExpectations(t)
	d.carts.AssertExpectations(t)
	d.tokens.AssertExpectations(t)
}
