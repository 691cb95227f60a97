package main

import (
	"log/slog"
	"time"

	"roomdesk/internal/app/commands"
	bookingapp "roomdesk/internal/app/handlers/booking"
	dashboardapp "roomdesk/internal/app/handlers/dashboard"
	roomsapp "roomdesk/internal/app/handlers/rooms"
	"roomdesk/internal/app/middleware"
	"roomdesk/internal/app/outbox"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	domainbooking "roomdesk/internal/domain/booking"
	domainrooms "roomdesk/internal/domain/rooms"
	ginserver "roomdesk/internal/infra/http/gin"
	"roomdesk/internal/infra/storage/memory"
)

// dependencies are the adapters chosen by configuration.
type dependencies struct {
	Logger       *slog.Logger
	Rooms        domainrooms.Repository
	Bookings     domainbooking.Repository
	Idempotency  middleware.IdempotencyStore
	Outbox       outbox.Outbox
	Images       policies.ImageResolver
	ConfirmDelay time.Duration
	Now          func() time.Time
}

type application struct {
	handlers ginserver.Handlers
	commands commands.Bus
	queries  queries.Bus
}

func buildApplication(deps dependencies) application {
	logger := deps.Logger
	if deps.Images == nil {
		deps.Images = policies.PassthroughImages{}
	}
	uowFactory := memory.Factory{
		RoomsRepo:    deps.Rooms,
		BookingsRepo: deps.Bookings,
	}

	commandBus := commands.NewInMemoryBus()
	requestHandler := &bookingapp.RequestBookingHandler{
		UoWFactory:   uowFactory,
		Outbox:       deps.Outbox,
		Encoder:      outbox.JSONEventEncoder{},
		Images:       deps.Images,
		ConfirmDelay: deps.ConfirmDelay,
		Now:          deps.Now,
		Logger:       logger,
	}
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), requestHandler)

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, roomsapp.SearchCatalogQuery{}.Key(), &roomsapp.SearchCatalogHandler{
		UoWFactory: uowFactory,
		Images:     deps.Images,
		Logger:     logger,
	})
	queries.RegisterHandler(queryBus, roomsapp.GetRoomQuery{}.Key(), &roomsapp.GetRoomHandler{
		UoWFactory: uowFactory,
		Images:     deps.Images,
		Logger:     logger,
	})
	queries.RegisterHandler(queryBus, bookingapp.QuoteBookingQuery{}.Key(), &bookingapp.QuoteBookingHandler{
		UoWFactory: uowFactory,
		Now:        deps.Now,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListBookingsQuery{}.Key(), &bookingapp.ListBookingsHandler{
		UoWFactory: uowFactory,
		Images:     deps.Images,
		Now:        deps.Now,
		Logger:     logger,
	})
	queries.RegisterHandler(queryBus, dashboardapp.SummaryQuery{}.Key(), &dashboardapp.SummaryHandler{
		UoWFactory: uowFactory,
		Now:        deps.Now,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Logging(logger),
		middleware.Idempotency(deps.Idempotency, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(deps.Outbox),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus, middleware.QueryLogging(logger))

	return application{
		handlers: ginserver.Handlers{
			Rooms:     ginserver.RoomHandler{Queries: queryBusWithMiddleware},
			Booking:   ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Dashboard: ginserver.DashboardHandler{Queries: queryBusWithMiddleware},
		},
		commands: commandBusWithMiddleware,
		queries:  queryBusWithMiddleware,
	}
}
