package mongodb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	leadsCollection = "leads"

	indexLeadEmail   = "lead_user_email_unique"
	indexLeadPhone   = "lead_user_phone_unique"
	indexLeadCreated = "lead_user_created"
	indexUserWebhook = "user_webhook_unique"
)

// userDocument is the stored shape of a user
type userDocument struct {
	ID        string    `bson:"_id"`
	WebhookID string    `bson:"webhookId,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

// leadDocument is the stored shape of a lead. createdAtNanos keeps full
// precision for ordering since BSON dates are millisecond based.
type leadDocument struct {
	ID             string                 `bson:"_id"`
	UserID         string                 `bson:"userId"`
	Name           string                 `bson:"name"`
	Email          string                 `bson:"email"`
	Phone          string                 `bson:"phone"`
	Other          map[string]interface{} `bson:"other,omitempty"`
	WebhookID      string                 `bson:"webhookId"`
	CreatedAt      time.Time              `bson:"createdAt"`
	CreatedAtNanos int64                  `bson:"createdAtNanos"`
}

// LeadStore implements repository.LeadStore on MongoDB. Leads of every user
// live in one collection keyed by userId; uniqueness of email and phone per
// user is enforced by unique compound indexes.
type LeadStore struct {
	db    *mongo.Database
	users *mongo.Collection
	leads *mongo.Collection

	mu   sync.Mutex
	last int64

	// Now is the clock used for server-assigned timestamps.
	Now func() time.Time
}

// NewLeadStore creates the store and ensures its indexes exist.
func NewLeadStore(ctx context.Context, db *mongo.Database) (*LeadStore, error) {
	store := &LeadStore{
		db:    db,
		users: db.Collection(usersCollection),
		leads: db.Collection(leadsCollection),
		Now:   func() time.Time { return time.Now().UTC() },
	}

	leadIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexLeadEmail),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexLeadPhone),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAtNanos", Value: -1}},
			Options: options.Index().SetName(indexLeadCreated),
		},
	}
	if _, err := store.leads.Indexes().CreateMany(ctx, leadIndexes); err != nil {
		return nil, fmt.Errorf("create lead indexes: %w", err)
	}

	// Partial so that records without a token never collide.
	webhookIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "webhookId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName(indexUserWebhook).
			SetPartialFilterExpression(bson.M{"webhookId": bson.M{"$type": "string"}}),
	}
	if _, err := store.users.Indexes().CreateOne(ctx, webhookIndex); err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return store, nil
}

// nextTimestamp returns a timestamp strictly after the previous one issued by
// this process.
func (s *LeadStore) nextTimestamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.Now().UnixNano()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return time.Unix(0, n).UTC()
}

// GetUser retrieves a user by ID
func (s *LeadStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	return doc.toModel(), nil
}

// UpsertUser replaces the user record, creating it when missing
func (s *LeadStore) UpsertUser(ctx context.Context, userID, webhookID string) (*model.User, error) {
	doc := userDocument{
		ID:        userID,
		WebhookID: webhookID,
		CreatedAt: s.Now().Truncate(time.Millisecond),
	}

	_, err := s.users.ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, model.ErrWebhookIDTaken
		}
		return nil, fmt.Errorf("upsert user %s: %w", userID, err)
	}
	return doc.toModel(), nil
}

// QueryUsersByWebhookID finds users by token, ordered by id
func (s *LeadStore) QueryUsersByWebhookID(ctx context.Context, webhookID string) ([]*model.User, error) {
	cur, err := s.users.Find(ctx, bson.M{"webhookId": webhookID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query users by webhook: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*model.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

// QueryLeadsByField runs an equality query over a user's leads
func (s *LeadStore) QueryLeadsByField(ctx context.Context, userID string, field model.LeadField, value string) ([]*model.Lead, error) {
	filter := bson.M{"userId": userID, string(field): value}
	return s.findLeads(ctx, filter, options.Find())
}

// InsertLead inserts the lead unless its email or phone is already used by the user
func (s *LeadStore) InsertLead(ctx context.Context, userID string, lead *model.Lead) (*model.Lead, error) {
	createdAt := s.nextTimestamp()
	doc := leadDocument{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Other:          lead.Other,
		WebhookID:      lead.WebhookID,
		CreatedAt:      createdAt,
		CreatedAtNanos: createdAt.UnixNano(),
	}

	if _, err := s.leads.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, s.duplicateError(ctx, userID, lead, err)
		}
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return doc.toModel(), nil
}

// duplicateError names the colliding field, preferring email when both collide.
func (s *LeadStore) duplicateError(ctx context.Context, userID string, lead *model.Lead, cause error) error {
	if strings.Contains(cause.Error(), indexLeadEmail) {
		return &model.DuplicateError{Field: model.LeadFieldEmail}
	}
	n, err := s.leads.CountDocuments(ctx, bson.M{"userId": userID, "email": lead.Email}, options.Count().SetLimit(1))
	if err == nil && n > 0 {
		return &model.DuplicateError{Field: model.LeadFieldEmail}
	}
	return &model.DuplicateError{Field: model.LeadFieldPhone}
}

// QueryLeadsPage returns a page of leads, newest first
func (s *LeadStore) QueryLeadsPage(ctx context.Context, userID string, page model.PageRequest) ([]*model.Lead, error) {
	filter := bson.M{"userId": userID}
	bounds := bson.M{}
	if page.After != nil {
		bounds["$gt"] = cursorNanos(page.After)
	}
	if page.Before != nil {
		bounds["$lt"] = cursorNanos(page.Before)
	}
	if len(bounds) > 0 {
		filter["createdAtNanos"] = bounds
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAtNanos", Value: -1}})
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return s.findLeads(ctx, filter, opts)
}

// Ping checks connectivity to the primary
func (s *LeadStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *LeadStore) findLeads(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Lead, error) {
	cur, err := s.leads.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}

	var docs []leadDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}

	leads := make([]*model.Lead, 0, len(docs))
	for i := range docs {
		leads = append(leads, docs[i].toModel())
	}
	return leads, nil
}

// cursorNanos converts a cursor to unix nanoseconds, saturating far-future values.
func cursorNanos(c *model.Cursor) int64 {
	if c.Seconds > math.MaxInt64/int64(time.Second)-1 {
		return math.MaxInt64
	}
	return c.Seconds*int64(time.Second) + int64(c.Nanos)
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:        d.ID,
		WebhookID: d.WebhookID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (d *leadDocument) toModel() *model.Lead {
	other, _ := normalizeValue(d.Other).(map[string]interface{})
	return &model.Lead{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Other:     other,
		WebhookID: d.WebhookID,
		CreatedAt: time.Unix(0, d.CreatedAtNanos).UTC(),
	}
}

// normalizeValue turns the driver's default decode types back into plain Go
// maps and slices so that they render as JSON objects and arrays.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		if val == nil {
			return nil
		}
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case primitive.M:
		return normalizeValue(map[string]interface{}(val))
	case primitive.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}
