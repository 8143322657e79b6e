package controllers

import (
	"context"
	"time"

	"go-food-ordering/events"
	"go-food-ordering/logger"
	"go-food-ordering/metrics"
	"go-food-ordering/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 10 * time.Second

var validate = validator.New()

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type CompanyStore interface {
	FindAll(ctx context.Context) ([]models.Company, error)
	FindManaged(ctx context.Context, companyID, userID primitive.ObjectID) (*models.Company, error)
	FindForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error)
}

type RestaurantStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error)
	FindManaged(ctx context.Context, restaurantID, userID primitive.ObjectID) (*models.Restaurant, error)
	FindByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]models.Restaurant, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Restaurant, error)
	AddMenuItem(ctx context.Context, restaurantID primitive.ObjectID, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, restaurantID, itemID primitive.ObjectID, patch models.MenuItemPatch) (*models.Restaurant, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]models.Order, error)
	FindByRestaurant(ctx context.Context, restaurantID primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error)
}

type CartStore interface {
	Get(ctx context.Context, tenantID, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, tenantID, userID primitive.ObjectID) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(user *models.User, tenantID string) (string, error)
}

// Notifier pushes a message to the live connections of one tenant.
type Notifier interface {
	Broadcast(tenantID primitive.ObjectID, message Message)
}

// Dependencies is everything the controllers need. Metrics may be nil.
type Dependencies struct {
	Users       UserStore
	Companies   CompanyStore
	Restaurants RestaurantStore
	Orders      OrderStore
	Carts       CartStore
	Tokens      TokenIssuer
	Publisher   events.Publisher
	Notifier    Notifier
	Metrics     *metrics.Metrics
	Log         logger.Logger
	BcryptCost  int
}
