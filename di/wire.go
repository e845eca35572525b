//go:build wireinject
// +build wireinject

package di

import (
	"taskpal/config"
	"taskpal/infras/chat"
	"taskpal/infras/geocoder"
	"taskpal/infras/jwt"
	"taskpal/infras/kafka"
	"taskpal/infras/mailer"
	"taskpal/infras/otel"
	"taskpal/infras/pdf"
	"taskpal/infras/postgres"
	"taskpal/infras/realtime"
	"taskpal/infras/redis"
	"taskpal/infras/s3"
	"taskpal/infras/stripe"
	"taskpal/internal/jobs"
	"taskpal/permissions"
	"taskpal/shared/cache"
	"taskpal/shared/otp"
	"taskpal/transport/http"
	"taskpal/transport/http/middleware"
	"taskpal/transport/http/router"

	"github.com/google/wire"

	addressService "taskpal/internal/domains/address/service"
	adminRepository "taskpal/internal/domains/admin/repository"
	adminService "taskpal/internal/domains/admin/service"
	announcementRepository "taskpal/internal/domains/announcement/repository"
	announcementService "taskpal/internal/domains/announcement/service"
	authService "taskpal/internal/domains/auth/service"
	authorizedRepository "taskpal/internal/domains/authorized/repository"
	authorizedService "taskpal/internal/domains/authorized/service"
	bookingRepository "taskpal/internal/domains/booking/repository"
	bookingService "taskpal/internal/domains/booking/service"
	chatRepository "taskpal/internal/domains/chat/repository"
	chatService "taskpal/internal/domains/chat/service"
	executionRepository "taskpal/internal/domains/execution/repository"
	executionService "taskpal/internal/domains/execution/service"
	notificationRepository "taskpal/internal/domains/notification/repository"
	notificationService "taskpal/internal/domains/notification/service"
	paymentRepository "taskpal/internal/domains/payment/repository"
	paymentService "taskpal/internal/domains/payment/service"
	providerRepository "taskpal/internal/domains/provider/repository"
	providerService "taskpal/internal/domains/provider/service"
	reviewRepository "taskpal/internal/domains/review/repository"
	reviewService "taskpal/internal/domains/review/service"
	userRepository "taskpal/internal/domains/user/repository"
	userService "taskpal/internal/domains/user/service"

	addressHandler "taskpal/internal/handlers/address"
	adminHandler "taskpal/internal/handlers/admin"
	announcementHandler "taskpal/internal/handlers/announcement"
	authHandler "taskpal/internal/handlers/auth"
	authorizedHandler "taskpal/internal/handlers/authorized"
	bookingHandler "taskpal/internal/handlers/booking"
	chatHandler "taskpal/internal/handlers/chat"
	notificationHandler "taskpal/internal/handlers/notification"
	paymentHandler "taskpal/internal/handlers/payment"
	providerHandler "taskpal/internal/handlers/provider"
	realtimeHandler "taskpal/internal/handlers/realtime"
	reviewHandler "taskpal/internal/handlers/review"
	userHandler "taskpal/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	mailer.New,
	kafka.New,
	kafka.NewPublisher,
	pdf.New,
	stripe.New,
	geocoder.New,
	chat.New,
	realtime.NewHub,
	realtime.NewBroadcaster,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	otp.NewStore,
)

var repositories = wire.NewSet(
	adminRepository.New,
	userRepository.New,
	providerRepository.New,
	authorizedRepository.New,
	bookingRepository.New,
	chatRepository.New,
	executionRepository.New,
	paymentRepository.New,
	reviewRepository.New,
	notificationRepository.New,
	announcementRepository.New,
)

var services = wire.NewSet(
	notificationService.New,
	authService.New,
	userService.New,
	providerService.New,
	adminService.New,
	authorizedService.New,
	bookingService.New,
	executionService.New,
	paymentService.New,
	reviewService.New,
	announcementService.New,
	chatService.New,
	addressService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	providerHandler.New,
	adminHandler.New,
	authorizedHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reviewHandler.New,
	notificationHandler.New,
	announcementHandler.New,
	chatHandler.New,
	addressHandler.New,
	realtimeHandler.New,
	router.New,
)

var worker = wire.NewSet(
	jobs.NewBookingMailer,
	jobs.NewScheduler,
	jobs.NewWorker,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		services,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *jobs.Worker {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		repositories,
		authService.New,
		authorizedService.New,
		worker,
	)

	return &jobs.Worker{}
}
