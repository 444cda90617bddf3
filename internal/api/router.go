package api

import (
	"courier-route-service/internal/api/handlers"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"net/http"
)

// Dependencies of the HTTP surface. Store may be nil, which disables plan lookup.
type Deps struct {
	Builder      *services.RouteBuilder
	Engine       *services.ShortestPathEngine
	Repo         ports.DestinationRepository
	Partitioner  ports.ZonePartitioner
	Store        ports.RouteStore
	DefaultDepot string
	Concurrency  int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	destHandler := &handlers.DestinationHandler{Repo: deps.Repo, Graph: deps.Engine.Graph()}
	pathHandler := &handlers.PathHandler{Engine: deps.Engine}
	planHandler := &handlers.PlanHandler{
		Builder:      deps.Builder,
		Repo:         deps.Repo,
		Partitioner:  deps.Partitioner,
		Store:        deps.Store,
		DefaultDepot: deps.DefaultDepot,
		Concurrency:  deps.Concurrency,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/destinations", destHandler.List)
	mux.HandleFunc("/paths", pathHandler.Get)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/plans/", planHandler.Get)

	return requestIDMiddleware(loggingMiddleware(mux))
}
