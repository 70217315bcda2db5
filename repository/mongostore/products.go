package mongostore

import (
	"context"
	"regexp"
	"sort"
	"time"

	"campus-connect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository stores listings in the products collection
type ProductRepository struct {
	Collection *mongo.Collection
}

// NewProductRepository creates a ProductRepository
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{Collection: db.Collection(productsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, product)
	return translate(err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	found := make(map[primitive.ObjectID]*models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for i := range products {
		found[products[i].ID] = &products[i]
	}
	return found, nil
}

func (r *ProductRepository) List(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	filter := listFilter(query)

	opts := options.Find().SetSort(listSort(query.Sort)).SetSkip(int64(query.Skip()))
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func listFilter(q models.ProductQuery) bson.M {
	filter := bson.M{}
	if q.Status != nil {
		filter["status"] = *q.Status
	}
	if q.SellerID != nil {
		filter["seller_id"] = *q.SellerID
	}
	if q.Category != "" {
		filter["category"] = containsFold(q.Category)
	}
	if price := priceFilter(q.Price); len(price) > 0 {
		filter["price"] = price
	}
	if q.Search != "" {
		pattern := containsFold(q.Search)
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"category": pattern},
		}
	}
	return filter
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func priceFilter(r models.PriceRange) bson.M {
	price := bson.M{}
	if r.Min != nil {
		op := "$gte"
		if r.MinExclusive {
			op = "$gt"
		}
		price[op] = *r.Min
	}
	if r.Max != nil {
		op := "$lte"
		if r.MaxExclusive {
			op = "$lt"
		}
		price[op] = *r.Max
	}
	return price
}

func listSort(s models.ProductSort) bson.D {
	switch s {
	case models.SortOldest:
		return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	}
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Images != nil {
		set["images"] = update.Images
	}

	var product models.Product
	filter := bson.M{"_id": id, "status": models.ProductAvailable}
	err := r.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, returnAfter()).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, missOrConflict(ctx, r.Collection, id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id, "status": models.ProductAvailable})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return missOrConflict(ctx, r.Collection, id)
	}
	return nil
}

func (r *ProductRepository) MarkSold(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.transition(ctx, id, models.ProductAvailable, models.ProductSold)
}

func (r *ProductRepository) Release(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.transition(ctx, id, models.ProductSold, models.ProductAvailable)
	return err
}

// transition is a single conditional write: it matches only while the stored
// status equals from, so concurrent callers cannot both succeed.
func (r *ProductRepository) transition(ctx context.Context, id primitive.ObjectID, from, to models.ProductStatus) (*models.Product, error) {
	var product models.Product
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}
	err := r.Collection.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, missOrConflict(ctx, r.Collection, id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.Collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *ProductRepository) PopularCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	counts := make([]models.CategoryCount, 0)
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}
