package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/TranHoa21/Mufilika/internal/controller"
	circuitbreaker "github.com/TranHoa21/Mufilika/internal/infrastructure/circuit-breaker"
	"github.com/TranHoa21/Mufilika/internal/infrastructure/mailer"
	"github.com/TranHoa21/Mufilika/internal/infrastructure/media"
	paymentgateway "github.com/TranHoa21/Mufilika/internal/infrastructure/payment-gateway"
	"github.com/TranHoa21/Mufilika/internal/infrastructure/tracing"
	localmiddleware "github.com/TranHoa21/Mufilika/internal/middleware"
	"github.com/TranHoa21/Mufilika/internal/repository"
	"github.com/TranHoa21/Mufilika/internal/service"
	"github.com/TranHoa21/Mufilika/pkg/response"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	DB            *sqlx.DB
	KafkaProducer *kafka.Conn
	Config        *config.Config
	Server        *echo.Echo

	BookingService service.BookingService

	traceProvider *trace.TracerProvider
}

// CreateApp wires the full dependency graph on the caller's goroutine, so the
// cron job and the server share services that exist before anything runs
// concurrently.
func CreateApp(db *sqlx.DB, kafkaProducer *kafka.Conn, conf *config.Config) *App {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()

	traceProvider, err := tracing.InitTracing(conf.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing")
	} else {
		tracer := traceProvider.Tracer("booking-service")

		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				// span creation and naming
				ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
				defer span.End()

				// add the context to the request
				req := c.Request()
				c.SetRequest(req.WithContext(ctx))

				return next(c)
			}
		})
	}

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(localmiddleware.Logger)

	g := e.Group("/api/v1")

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	vnpayClient := paymentgateway.CreateVNPayClient(conf)
	cb := circuitbreaker.CreateCircuitBreaker("booking-service")
	uploader := media.CreateCloudinaryUploader(conf, cb)
	smtpMailer := mailer.CreateSMTPMailer(conf)

	bookingRepo := repository.CreateBookingRepository(db)
	tourRepo := repository.CreateTourRepository(db)

	bookingSvc := service.CreateBookingService(bookingRepo, tourRepo, vnpayClient, kafkaProducer, smtpMailer)
	tourSvc := service.CreateTourService(tourRepo, uploader)

	controller.CreateController(g, bookingSvc, tourSvc, conf, localmiddleware.AdminOnly(conf.JWTSecret))

	return &App{
		DB:             db,
		KafkaProducer:  kafkaProducer,
		Config:         conf,
		Server:         e,
		BookingService: bookingSvc,
		traceProvider:  traceProvider,
	}
}

func (app *App) Start() {
	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	app.Server.Logger.Fatal(app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))
}

func (app *App) StopServer() error {
	if app.traceProvider != nil {
		if err := app.traceProvider.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
