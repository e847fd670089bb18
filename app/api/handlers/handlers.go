// Package handlers wires the services, middlewares and routes together.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ysaito/todoapi/app/api/auth"
	"github.com/ysaito/todoapi/app/api/errs"
	"github.com/ysaito/todoapi/app/api/handlers/todos"
	"github.com/ysaito/todoapi/app/api/handlers/users"
	"github.com/ysaito/todoapi/app/api/mid"
	"github.com/ysaito/todoapi/business/database/postgres"
	sessionRedis "github.com/ysaito/todoapi/business/domain/session/store/redis"
	"github.com/ysaito/todoapi/business/domain/todo"
	todoPostgresRepo "github.com/ysaito/todoapi/business/domain/todo/store/postgres"
	"github.com/ysaito/todoapi/business/domain/user"
	userPostgresRepo "github.com/ysaito/todoapi/business/domain/user/store/postgres"
	"github.com/ysaito/todoapi/foundation/web"
)

// EventPublisher is the behaviour the user service needs from the broker.
type EventPublisher interface {
	DeclareQueue(name string) error
	Publish(queue string, msg []byte) error
}

type Config struct {
	Shutdown       chan os.Signal
	Logger         *slog.Logger
	Validator      *errs.AppValidator
	PostgresClient *postgres.Client
	RedisClient    *redis.Client
	Broker         EventPublisher
	ActiveKID      string
	TokenAge       time.Duration
	Keystore       auth.Keystore
	Issuer         string
	RateLimit      string
}

func RegisterRoutes(conf Config) (*web.App, error) {
	//==============================================================================
	//setup
	const version = "v1"

	rateLimit, err := mid.RateLimit(conf.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("building rate limiter: %w", err)
	}

	app := web.NewApp(conf.Shutdown,
		mid.Logger(conf.Logger),
		mid.Errors(conf.Logger),
		mid.Panics(),
		mid.ClientTimezone(),
	)

	userRepo := userPostgresRepo.NewRepository(conf.PostgresClient)
	userService, err := user.NewService(userRepo, conf.Broker)
	if err != nil {
		return nil, fmt.Errorf("building user service: %w", err)
	}

	todoRepo := todoPostgresRepo.NewRepository(conf.PostgresClient)
	todoService := todo.NewService(todoRepo)

	//setup auth
	auth := auth.New(auth.Config{
		Keystore:    conf.Keystore,
		ActiveKid:   conf.ActiveKID,
		TokenAge:    conf.TokenAge,
		UserService: userService,
		Revoker:     sessionRedis.NewRepository(conf.RedisClient),
		Issuer:      conf.Issuer,
	})

	userHandler := users.Handler{
		Validator:    conf.Validator,
		UsersService: userService,
		Auth:         auth,
	}

	todoHandler := todos.Handler{
		Validator:   conf.Validator,
		TodoService: todoService,
	}

	//==============================================================================
	//users
	app.HandleFunc(http.MethodPost, version, "/api/users/signup", userHandler.Signup, rateLimit)
	app.HandleFunc(http.MethodPost, version, "/api/users/login", userHandler.Login, rateLimit)
	app.HandleFunc(http.MethodPost, version, "/api/users/logout", userHandler.Logout, mid.Authenticate(auth))

	app.HandleFunc(http.MethodGet, version, "/api/users/{id}", userHandler.GetUserById, mid.Authenticate(auth))

	app.HandleFunc(http.MethodGet, version, "/api/users", userHandler.GetAllUsers,
		mid.Authenticate(auth),
		mid.Authorized(auth),
	)
	app.HandleFunc(http.MethodGet, version, "/api/users/export", userHandler.ExportUsers,
		mid.Authenticate(auth),
		mid.Authorized(auth),
	)
	app.HandleFunc(http.MethodPut, version, "/api/users/{id}/deactivate", userHandler.DeactivateUser,
		mid.Authenticate(auth),
		mid.Authorized(auth),
	)
	app.HandleFunc(http.MethodDelete, version, "/api/users/{id}", userHandler.DeleteUserById,
		mid.Authenticate(auth),
		mid.Authorized(auth),
	)

	//==============================================================================
	//todos
	app.HandleFunc(http.MethodPost, version, "/api/todos", todoHandler.CreateTodo, mid.Authenticate(auth))
	app.HandleFunc(http.MethodGet, version, "/api/todos", todoHandler.GetMyTodos, mid.Authenticate(auth))
	app.HandleFunc(http.MethodGet, version, "/api/todos/{id}", todoHandler.GetTodoById, mid.Authenticate(auth))
	app.HandleFunc(http.MethodPut, version, "/api/todos/{id}/complete", todoHandler.CompleteTodo, mid.Authenticate(auth))
	app.HandleFunc(http.MethodDelete, version, "/api/todos/{id}", todoHandler.DeleteTodoById, mid.Authenticate(auth))

	return app, nil
}
