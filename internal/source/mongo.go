package source

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/misha-la/online-retail-analysis/internal/retail"
)

const (
	mongoDatabase   = "retail"
	mongoCollection = "transactions"
)

type MongoDriver struct {
	client *mongo.Client
}

// mongoTransaction mirrors one document in the transactions collection.
type mongoTransaction struct {
	Invoice     string    `bson:"invoice"`
	StockCode   string    `bson:"stock_code"`
	Description string    `bson:"description"`
	Quantity    int       `bson:"quantity"`
	UnitPrice   float64   `bson:"unit_price"`
	InvoiceDate time.Time `bson:"invoice_date"`
	CustomerID  *string   `bson:"customer_id"`
	Country     string    `bson:"country"`
}

func (md *MongoDriver) Open(dsn string) error {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(dsn))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	md.client = client
	return nil
}

func (md *MongoDriver) Close() error {
	if md.client == nil {
		return nil
	}
	return md.client.Disconnect(context.Background())
}

func (md *MongoDriver) Load(ctx context.Context) ([]retail.Transaction, error) {
	collection := md.client.Database(mongoDatabase).Collection(mongoCollection)
	opts := options.Find().SetSort(bson.D{{Key: "invoice_date", Value: 1}, {Key: "invoice", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []retail.Transaction
	for cursor.Next(ctx) {
		var doc mongoTransaction
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		tx := retail.Transaction{
			Invoice:     doc.Invoice,
			StockCode:   doc.StockCode,
			Description: doc.Description,
			Quantity:    doc.Quantity,
			UnitPrice:   doc.UnitPrice,
			InvoiceDate: doc.InvoiceDate,
			Country:     doc.Country,
		}
		if doc.CustomerID != nil {
			tx.CustomerID = *doc.CustomerID
		}
		transactions = append(transactions, tx)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return transactions, nil
}
