package handler

import (
	"chugr/backend/internal/health"
	"chugr/backend/internal/matching"
	"chugr/backend/internal/repository"
)

var (
	users    *repository.UserRepository
	blocks   *repository.BlockRepository
	convos   *repository.ConversationRepository
	matchSvc *matching.Service
	registry *health.Registry
)

// Init wires the handler package's collaborators. Must be called once
// before any route is served.
func Init(userRepo *repository.UserRepository, blockRepo *repository.BlockRepository, convRepo *repository.ConversationRepository, svc *matching.Service, reg *health.Registry) {
	users = userRepo
	blocks = blockRepo
	convos = convRepo
	matchSvc = svc
	registry = reg
}
