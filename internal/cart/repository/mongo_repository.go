package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/photoframix/storefront/internal/domain"
)

// cartDocument is the storage shape. Money travels as decimal strings; a
// corrupt amount on read degrades to zero rather than failing the load.
type cartDocument struct {
	SessionID string         `bson:"session_id"`
	Items     []itemDocument `bson:"items"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

type itemDocument struct {
	ProductID     string    `bson:"product_id"`
	Name          string    `bson:"name"`
	UnitPrice     string    `bson:"unit_price"`
	Size          string    `bson:"size"`
	Color         string    `bson:"color"`
	Material      string    `bson:"material"`
	Quantity      int       `bson:"quantity"`
	BasePrice     string    `bson:"base_price"`
	SizeSurcharge string    `bson:"size_surcharge"`
	TotalPrice    string    `bson:"total_price"`
	AddedAt       time.Time `bson:"added_at"`
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *mongoRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var doc cartDocument

	filter := bson.M{"session_id": sessionID}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return docToCart(&doc), nil
}

func (m *mongoRepository) Save(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"session_id": cart.SessionID}
	update := bson.M{"$set": cartToDoc(cart)}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (m *mongoRepository) Delete(ctx context.Context, sessionID string) error {
	filter := bson.M{"session_id": sessionID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func cartToDoc(cart *domain.Cart) *cartDocument {
	doc := &cartDocument{
		SessionID: cart.SessionID,
		Items:     make([]itemDocument, 0, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		doc.Items = append(doc.Items, itemDocument{
			ProductID:     item.ProductID,
			Name:          item.Name,
			UnitPrice:     item.UnitPrice.String(),
			Size:          item.Size,
			Color:         item.Color,
			Material:      item.Material,
			Quantity:      item.Quantity,
			BasePrice:     item.Customization.Breakdown.BasePrice.String(),
			SizeSurcharge: item.Customization.Breakdown.SizeSurcharge.String(),
			TotalPrice:    item.Customization.Breakdown.TotalPrice.String(),
			AddedAt:       item.AddedAt,
		})
	}
	return doc
}

func docToCart(doc *cartDocument) *domain.Cart {
	cart := &domain.Cart{
		SessionID: doc.SessionID,
		Items:     make([]domain.CartLineItem, 0, len(doc.Items)),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, item := range doc.Items {
		cart.Items = append(cart.Items, domain.CartLineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: parseAmount(item.UnitPrice),
			Size:      item.Size,
			Color:     item.Color,
			Material:  item.Material,
			Quantity:  item.Quantity,
			Customization: domain.Customization{
				Size:     item.Size,
				Color:    item.Color,
				Material: item.Material,
				Breakdown: domain.PriceBreakdown{
					BasePrice:     parseAmount(item.BasePrice),
					SizeSurcharge: parseAmount(item.SizeSurcharge),
					TotalPrice:    parseAmount(item.TotalPrice),
				},
			},
			AddedAt: item.AddedAt,
		})
	}
	return cart
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
