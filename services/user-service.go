package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"ram-planner/backend/logging"
	"ram-planner/backend/models"
	"ram-planner/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService struct {
	UserCollection *mongo.Collection
	JWTManager     *utils.JWTManager
	Pepper         string
}

func NewUserService(userCollection *mongo.Collection, jwtManager *utils.JWTManager, pepper string) *UserService {
	return &UserService{
		UserCollection: userCollection,
		JWTManager:     jwtManager,
		Pepper:         pepper,
	}
}

// Register validates credentials, enforces username uniqueness and stores
// the user with a peppered bcrypt hash. The returned user never carries
// the hash.
func (s *UserService) Register(ctx context.Context, username, password string) (models.User, error) {
	if err := utils.ValidatePassword(password); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := utils.ValidateUsername(username); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&existing); err == nil {
		return models.User{}, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	hashed, err := utils.HashPassword(password, s.Pepper)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Password:     hashed,
		RegisteredAt: time.Now(),
	}

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		return models.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered successfully", username)

	user.Password = ""
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return models.User{}, "", ErrUnauthorized
	}

	if !utils.CheckPassword(user.Password, password, s.Pepper) {
		return models.User{}, "", ErrUnauthorized
	}

	token, err := s.JWTManager.GenerateToken(user.ID.Hex(), user.Username)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", username)

	user.Password = ""
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid user id", ErrNotFound)
	}

	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return models.User{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return models.User{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	user.Password = ""
	return user, nil
}

// Search matches usernames by case-insensitive substring and returns
// slim projections only.
func (s *UserService) Search(ctx context.Context, query string) ([]models.Member, error) {
	filter := bson.M{"username": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}

	cursor, err := s.UserCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer cursor.Close(ctx)

	members := []models.Member{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		members = append(members, user.AsMember())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return members, nil
}
