package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RushabhMehta2005/todo-auth/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	todosCollection = "todos"
)

// EnsureMongoIndexes creates the unique credential indexes and the owner
// index used by every todo query. Uniqueness of username and email rests on
// these indexes, not on the signup pre-check.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = db.Collection(todosCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create todo indexes: %w", err)
	}
	return nil
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(usersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) FindByEmailOrUsername(ctx context.Context, username, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

type MongoTodoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoTodoStore(db *mongo.Database) *MongoTodoStore {
	return &MongoTodoStore{
		coll: db.Collection(todosCollection),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *MongoTodoStore) Create(ctx context.Context, todo *models.Todo) error {
	if err := todo.Normalize(); err != nil {
		return err
	}
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	now := s.now()
	todo.CreatedAt, todo.UpdatedAt = now, now

	if _, err := s.coll.InsertOne(ctx, todo); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (s *MongoTodoStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := []models.Todo{}
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *MongoTodoStore) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	return decodeTodo(s.coll.FindOne(ctx, ownerFilter(id, ownerID)), "get todo")
}

func (s *MongoTodoStore) UpdateByIDAndOwner(ctx context.Context, id, ownerID string, update models.TodoUpdate) (*models.Todo, error) {
	if err := update.Normalize(); err != nil {
		return nil, err
	}
	if update.Empty() {
		return s.GetByIDAndOwner(ctx, id, ownerID)
	}

	set := bson.M{"updatedAt": s.now()}
	for field, value := range update.Fields() {
		set[field] = value
	}

	result := s.coll.FindOneAndUpdate(ctx,
		ownerFilter(id, ownerID),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeTodo(result, "update todo")
}

func (s *MongoTodoStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	return decodeTodo(s.coll.FindOneAndDelete(ctx, ownerFilter(id, ownerID)), "delete todo")
}

func ownerFilter(id, ownerID string) bson.M {
	return bson.M{"_id": id, "ownerId": ownerID}
}

func decodeTodo(result *mongo.SingleResult, op string) (*models.Todo, error) {
	var todo models.Todo
	err := result.Decode(&todo)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &todo, nil
}
