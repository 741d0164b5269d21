package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBClient wraps MongoDB for short-lived report result caching.
// Single-process, last-writer-wins; staleness is enforced at read time.
type MongoDBClient struct {
	client     *mongo.Client
	collection *mongo.Collection
	cacheTTL   time.Duration
}

// CachedReport represents a cached report document in MongoDB
type CachedReport struct {
	CacheKey  string                  `bson:"_id" json:"cacheKey"`
	UserIDs   []string                `bson:"userIds" json:"userIds"`
	StartDate string                  `bson:"startDate" json:"startDate"`
	EndDate   string                  `bson:"endDate" json:"endDate"`
	Source    string                  `bson:"source" json:"source"`
	Report    models.AttendanceReport `bson:"report" json:"report"`
	CreatedAt time.Time               `bson:"createdAt" json:"createdAt"`
}

// NewMongoDBClient creates a new MongoDB client for report caching
func NewMongoDBClient(cfg config.MongoDBConfig) (*MongoDBClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uri := cfg.URI
	if uri == "" {
		if cfg.Username != "" && cfg.Password != "" {
			userInfo := url.UserPassword(cfg.Username, cfg.Password)
			uri = fmt.Sprintf("mongodb://%s@%s:%s/%s?authSource=%s",
				userInfo.String(), cfg.Host, cfg.Port, cfg.Database, url.QueryEscape(cfg.AuthSource))
		} else {
			uri = fmt.Sprintf("mongodb://%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)
		}
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	indexModel := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: 1}}}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Index might already exist, that's okay
		log.Printf("Note: MongoDB index creation: %v", err)
	}

	return &MongoDBClient{
		client:     client,
		collection: collection,
		cacheTTL:   cfg.CacheTTL,
	}, nil
}

// Close closes the MongoDB client connection
func (c *MongoDBClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// GenerateCacheKey builds a stable key from the run parameters
func GenerateCacheKey(userIDs []string, startDate, endDate, source string) string {
	sorted := make([]string, len(userIDs))
	copy(sorted, userIDs)
	sort.Strings(sorted)

	keyData := fmt.Sprintf("%s:%s:%s:%s", strings.Join(sorted, ","), startDate, endDate, source)
	hash := sha256.Sum256([]byte(keyData))
	return hex.EncodeToString(hash[:])
}

// GetCachedReport retrieves a cached report. An entry older than the TTL is
// a miss, not an error.
func (c *MongoDBClient) GetCachedReport(cacheKey string) (*models.AttendanceReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cached CachedReport
	err := c.collection.FindOne(ctx, bson.M{"_id": cacheKey}).Decode(&cached)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cached report: %w", err)
	}

	if c.cacheTTL > 0 && time.Since(cached.CreatedAt) > c.cacheTTL {
		return nil, nil
	}

	return &cached.Report, nil
}

// CacheReport stores a report, replacing any previous entry for the key
func (c *MongoDBClient) CacheReport(userIDs []string, startDate, endDate, source string, report *models.AttendanceReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cached := CachedReport{
		CacheKey:  GenerateCacheKey(userIDs, startDate, endDate, source),
		UserIDs:   userIDs,
		StartDate: startDate,
		EndDate:   endDate,
		Source:    source,
		Report:    *report,
		CreatedAt: time.Now(),
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": cached.CacheKey}
	update := bson.M{"$set": cached}

	if _, err := c.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}
