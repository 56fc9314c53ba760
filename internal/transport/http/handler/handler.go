// Package handler composes the HTTP handlers for the webapp server.
package handler

import (
	"log/slog"
	"time"

	"github.com/oneworldlabs/oneworld/internal/auth"
	"github.com/oneworldlabs/oneworld/internal/lobby"
	"github.com/oneworldlabs/oneworld/internal/storage"
	"github.com/oneworldlabs/oneworld/internal/transport/http/handler/infra"
	"github.com/oneworldlabs/oneworld/internal/transport/http/handler/webapp"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Webapp *webapp.Handlers
	Infra  *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(store storage.Storage, verifier *auth.Verifier, sessions *auth.Sessions, lobbies *lobby.Manager, sharedSecret string, logger *slog.Logger) *Repo {
	return &Repo{
		Webapp: webapp.New(store, verifier, sessions, lobbies, sharedSecret, logger),
		Infra:  infra.New(time.Now()),
	}
}
