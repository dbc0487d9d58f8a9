package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ram-planner/backend/config"
	"ram-planner/backend/handlers"
	"ram-planner/backend/logging"
	"ram-planner/backend/middleware"
	"ram-planner/backend/repositories"
	"ram-planner/backend/services"
	"ram-planner/backend/utils"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting RAM planner backend...")

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.MongoDBName)
	usersCollection := db.Collection("users")
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")
	invitationsCollection := db.Collection("invitations")

	if err := createUsernameIndex(ctx, usersCollection); err != nil {
		logging.Logger.Fatalf("Event ID: INDEX_CREATION_FAILED, Description: Failed to create unique username index: %v", err)
	}

	notificationRepo, err := repositories.NewNotificationRepo(cfg.CassandraHost)
	if err != nil {
		logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: Cassandra connection failed: %v", err)
	}
	defer notificationRepo.CloseSession()

	if err := notificationRepo.CreateTable(); err != nil {
		logging.Logger.Fatalf("Event ID: CASSANDRA_TABLE_FAILED, Description: Failed to create notifications table: %v", err)
	}

	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' state changed from %s to %s", name, from.String(), to.String())
		},
	})

	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.TokenExpiry)

	notificationService := services.NewNotificationService(notificationRepo, notificationsBreaker)
	userService := services.NewUserService(usersCollection, jwtManager, cfg.Pepper)
	projectService := services.NewProjectService(projectsCollection, tasksCollection, usersCollection, invitationsCollection, notificationService)
	taskService := services.NewTaskService(tasksCollection, projectsCollection)

	loginHandler := handlers.NewLoginHandler(userService, jwtManager)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	session := middleware.Session(jwtManager, userService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	api.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", loginHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", loginHandler.Logout).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(session)

	protected.HandleFunc("/profile", userHandler.Profile).Methods(http.MethodGet)
	protected.HandleFunc("/users/search", userHandler.Search).Methods(http.MethodGet)

	protected.HandleFunc("/projects", projectHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/projects", projectHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{projectId}", projectHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{projectId}", projectHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/projects/{projectId}/invite", projectHandler.Invite).Methods(http.MethodPost)

	protected.HandleFunc("/invitations/{invitationId}", projectHandler.GetInvitation).Methods(http.MethodGet)
	protected.HandleFunc("/invitations/{invitationId}/respond", projectHandler.RespondToInvitation).Methods(http.MethodPost)

	protected.HandleFunc("/projects/{projectId}/tasks", taskHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{projectId}/tasks", taskHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{projectId}/tasks/{taskId}", taskHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{projectId}/tasks/{taskId}", taskHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{projectId}/tasks/{taskId}", taskHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}", notificationHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/notifications/{notificationId}/read", notificationHandler.MarkRead).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Page not found"}`))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      enableCORS(cfg.AllowedOrigin)(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Event ID: SERVICE_STOP, Description: Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_ERROR, Description: Graceful shutdown failed: %v", err)
	}
}

func createUsernameIndex(ctx context.Context, users *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := users.Indexes().CreateOne(ctx, indexModel)
	return err
}
