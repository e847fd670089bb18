// Package web is a minimal web framework on top of the standard mux: handlers
// return errors, middlewares wrap handlers, request metadata travels in the
// context.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Handler is the signature every route handler in the app implements.
type Handler func(context.Context, http.ResponseWriter, *http.Request) error

// App holds the mux and the application-wide middlewares.
type App struct {
	mux      *http.ServeMux
	shutdown chan<- os.Signal
	mids     []Middleware
}

// NewApp creates an App, the given middlewares wrap every registered route.
func NewApp(shutdown chan<- os.Signal, mids ...Middleware) *App {
	return &App{
		mux:      http.NewServeMux(),
		shutdown: shutdown,
		mids:     mids,
	}
}

// SignalShutdown gracefully shuts the service down when a handler error made
// it past the error middleware.
func (a *App) SignalShutdown() {
	a.shutdown <- syscall.SIGTERM
}

// HandleFunc registers the handler wrapped first in the route middlewares,
// then in the application middlewares.
func (a *App) HandleFunc(method string, version string, path string, handler Handler, mids ...Middleware) {
	handler = applyMiddlewares(handler, mids...)
	handler = applyMiddlewares(handler, a.mids...)

	h := func(w http.ResponseWriter, r *http.Request) {
		rm := requestMetadata{
			StartedAt: time.Now(),
			RequestId: uuid.New(),
		}
		ctx := injectRequestMetadata(r.Context(), &rm)

		if err := handler(ctx, w, r); err != nil {
			//the error middleware handles everything it recognizes, anything
			//that reaches this point means the service is not healthy
			a.SignalShutdown()
		}
	}

	finalPath := path
	if version != "" {
		finalPath = "/" + version + path
	}
	finalPath = fmt.Sprintf("%s %s", method, finalPath)

	a.mux.HandleFunc(finalPath, h)
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}
