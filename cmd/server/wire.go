// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/admin"
	"github.com/mhmasum1/digital-life-lessons-server/internal/app"
	"github.com/mhmasum1/digital-life-lessons-server/internal/comment"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/contact"
	"github.com/mhmasum1/digital-life-lessons-server/internal/favorite"
	"github.com/mhmasum1/digital-life-lessons-server/internal/identity"
	"github.com/mhmasum1/digital-life-lessons-server/internal/jobs"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/middleware"
	"github.com/mhmasum1/digital-life-lessons-server/internal/payment"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/elasticsearch"
	"github.com/mhmasum1/digital-life-lessons-server/internal/report"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		app.ProvideMigrator,
		provideDatabase,
		wire.Bind(new(database.Conn), new(*database.Lazy)),
		elasticsearch.NewLessonIndexer,

		// Identity
		identity.NewJWTService,
		identity.NewVerifier,
		identity.NewHandler,

		// Users
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(middleware.RoleLookup), new(*user.ServiceImplementation)),
		wire.Bind(new(identity.Directory), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Lessons and their satellites
		lesson.NewGORMRepository,
		lesson.NewService,
		wire.Bind(new(lesson.Service), new(*lesson.ServiceImplementation)),
		lesson.NewHandler,
		comment.NewGORMRepository,
		comment.NewService,
		wire.Bind(new(comment.Service), new(*comment.ServiceImplementation)),
		comment.NewHandler,
		favorite.NewGORMRepository,
		favorite.NewService,
		wire.Bind(new(favorite.Service), new(*favorite.ServiceImplementation)),
		favorite.NewHandler,
		report.NewGORMRepository,
		report.NewService,
		wire.Bind(new(report.Service), new(*report.ServiceImplementation)),
		report.NewHandler,
		contact.NewGORMRepository,
		contact.NewService,
		wire.Bind(new(contact.Service), new(*contact.ServiceImplementation)),
		contact.NewHandler,

		// Payments
		payment.NewStripeGateway,
		payment.NewService,
		payment.NewHandler,

		// Admin
		admin.NewService,
		admin.NewHandler,

		// Jobs
		jobs.NewMaintenanceJob,

		// Application Layer
		wire.Struct(new(app.Handlers), "*"),
		app.NewServer,
	)
	return nil, nil, nil
}
