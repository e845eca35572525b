package router

import (
	"taskpal/internal/handlers/address"
	"taskpal/internal/handlers/admin"
	"taskpal/internal/handlers/announcement"
	"taskpal/internal/handlers/auth"
	"taskpal/internal/handlers/authorized"
	"taskpal/internal/handlers/booking"
	"taskpal/internal/handlers/chat"
	"taskpal/internal/handlers/notification"
	"taskpal/internal/handlers/payment"
	"taskpal/internal/handlers/provider"
	"taskpal/internal/handlers/realtime"
	"taskpal/internal/handlers/review"
	"taskpal/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Provider     provider.Handler
	Admin        admin.Handler
	Authorized   authorized.Handler
	Booking      booking.Handler
	Payment      payment.Handler
	Review       review.Handler
	Notification notification.Handler
	Announcement announcement.Handler
	Chat         chat.Handler
	Address      address.Handler
	Realtime     realtime.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/api", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Provider.Router(routerGroup)
		r.DomainHandlers.Admin.Router(routerGroup)
		r.DomainHandlers.Authorized.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
		r.DomainHandlers.Announcement.Router(routerGroup)
		r.DomainHandlers.Chat.Router(routerGroup)
		r.DomainHandlers.Address.Router(routerGroup)
		r.DomainHandlers.Realtime.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
