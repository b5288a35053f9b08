package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

const planCollection = "production_plans"

// PlanArchive stores production plan snapshots in MongoDB
type PlanArchive struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// Verify interface compliance
var _ repositories.PlanArchive = (*PlanArchive)(nil)

// planItemDocument mirrors entities.ProductionPlanItem; decimals are kept as strings
type planItemDocument struct {
	ProductID          string `bson:"product_id"`
	Code               string `bson:"code"`
	Name               string `bson:"name"`
	UnitPrice          string `bson:"unit_price"`
	ProducibleQuantity string `bson:"producible_quantity"`
	TotalValue         string `bson:"total_value"`
}

type planDocument struct {
	RunID           string             `bson:"_id"`
	GeneratedAt     time.Time          `bson:"generated_at"`
	Trigger         string             `bson:"trigger"`
	Items           []planItemDocument `bson:"items"`
	GrandTotalValue string             `bson:"grand_total_value"`
}

// NewPlanArchive connects to MongoDB and verifies the connection.
func NewPlanArchive(ctx context.Context, uri string, dbName string) (*PlanArchive, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &PlanArchive{
		client:   client,
		dbName:   dbName,
		collName: planCollection,
	}, nil
}

// SavePlan inserts a plan snapshot keyed by its run id
func (a *PlanArchive) SavePlan(ctx context.Context, snapshot entities.PlanSnapshot) error {
	collection := a.client.Database(a.dbName).Collection(a.collName)
	if _, err := collection.InsertOne(ctx, newPlanDocument(snapshot)); err != nil {
		return fmt.Errorf("failed to insert production plan %s: %w", snapshot.RunID, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (a *PlanArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

func newPlanDocument(snapshot entities.PlanSnapshot) planDocument {
	doc := planDocument{
		RunID:           snapshot.RunID,
		GeneratedAt:     snapshot.GeneratedAt.UTC(),
		Trigger:         snapshot.Trigger,
		Items:           make([]planItemDocument, 0, len(snapshot.Plan.Items)),
		GrandTotalValue: entities.FormatMoney(snapshot.Plan.GrandTotalValue),
	}
	for _, item := range snapshot.Plan.Items {
		doc.Items = append(doc.Items, planItemDocument{
			ProductID:          string(item.ProductID),
			Code:               item.Code,
			Name:               item.Name,
			UnitPrice:          entities.FormatMoney(item.UnitPrice),
			ProducibleQuantity: item.ProducibleQuantity.String(),
			TotalValue:         entities.FormatMoney(item.TotalValue),
		})
	}
	return doc
}
