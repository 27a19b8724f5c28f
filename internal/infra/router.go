package infra

import (
	"errors"
	"net/http"

	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ayaocrm/crm/internal/auth"
	"github.com/ayaocrm/crm/internal/backup"
	"github.com/ayaocrm/crm/internal/cache"
	"github.com/ayaocrm/crm/internal/config"
	apperrors "github.com/ayaocrm/crm/internal/errors"
	"github.com/ayaocrm/crm/internal/handlers"
	"github.com/ayaocrm/crm/internal/middleware"
	"github.com/ayaocrm/crm/internal/repository"
	"github.com/ayaocrm/crm/internal/service"
	"github.com/ayaocrm/crm/internal/validation"
	"github.com/ayaocrm/crm/pkg/db/transactor"
)

// Services groups the application services the router exposes
type Services struct {
	Identity service.IdentityService
	Customer service.CustomerService
	Audit    service.AuditService
	Backup   service.BackupService
}

// BuildServices wires repositories, cache and services on top of the
// connection pools
func BuildServices(pgPool *pgxpool.Pool, redisClient *redis.Client, cfg config.Config) Services {
	trx := transactor.NewPgxTransactor(pgPool)
	executor := transactor.NewPgxWithinTransactionExecutor(pgPool)

	userRepo := repository.NewPostgresUserRepository(executor)
	customerRepo := repository.NewPostgresCustomerRepository(executor)
	followupRepo := repository.NewPostgresFollowupRepository(executor)
	auditRepo := repository.NewPostgresAuditLogRepository(executor)

	customerCache := cache.NewRedisCustomerCache(redisClient)

	jwtIssuer := auth.NewJwtIssuer(cfg.JwtCfg.Issuer, cfg.JwtCfg.SigningMethod, cfg.JwtCfg.TimeToLive, cfg.JwtCfg.PrivateKey)
	uploader := backup.NewGithubUploader(cfg.BackupCfg)

	return Services{
		Identity: service.NewIdentityService(jwtIssuer, trx, userRepo, auditRepo),
		Customer: service.NewCustomerService(trx, customerRepo, followupRepo, auditRepo, customerCache),
		Audit:    service.NewAuditService(auditRepo),
		Backup:   service.NewBackupService(customerRepo, followupRepo, auditRepo, uploader),
	}
}

// Router builds the echo application with all API routes
func Router(svc Services, cfg config.Config) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler(e)

	validator, err := validation.Echo()
	if err != nil {
		return nil, err
	}
	e.Validator = validator

	jwtValidator := auth.NewJwtValidator(cfg.JwtCfg.SigningMethod, cfg.JwtCfg.PublicKey)
	authorizeMw := middleware.Authorize(jwtValidator)
	adminMw := middleware.AdminOnly()

	authHandler := handlers.NewAuthHTTPHandler(svc.Identity)
	userHandler := handlers.NewUserHTTPHandler(svc.Identity)
	customerHandler := handlers.NewCustomerHTTPHandler(svc.Customer)
	adminHandler := handlers.NewAdminHTTPHandler(svc.Audit, svc.Backup)

	api := e.Group("/api")

	authAPI := api.Group("/auth")
	authAPI.POST("/login", authHandler.Login)

	usersAPI := api.Group("/users", authorizeMw, adminMw)
	usersAPI.GET("", userHandler.GetAll)
	usersAPI.POST("", userHandler.Post)
	usersAPI.PUT("/:username/password", userHandler.PutPassword)
	usersAPI.DELETE("/:username", userHandler.DeleteByUsername)

	customersAPI := api.Group("/customers", authorizeMw)
	customersAPI.GET("", customerHandler.GetAll)
	customersAPI.GET("/:id", customerHandler.Get)
	customersAPI.POST("", customerHandler.Post)
	customersAPI.PUT("/:id", customerHandler.Put)
	customersAPI.DELETE("/:id", customerHandler.DeleteByID)
	customersAPI.GET("/:id/followups", customerHandler.GetFollowups)
	customersAPI.POST("/:id/followups", customerHandler.PostFollowup)

	logsAPI := api.Group("/logs", authorizeMw, adminMw)
	logsAPI.GET("", adminHandler.GetLogs)

	backupsAPI := api.Group("/backups", authorizeMw, adminMw)
	backupsAPI.POST("", adminHandler.PostBackup)

	return e, nil
}

// httpErrorHandler maps domain errors onto response codes. Unknown errors
// are logged and surfaced as a generic failure.
func httpErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			validationErr *apperrors.ValidationError
			notFoundErr   *apperrors.NotFoundError
			duplicateErr  *apperrors.DuplicateKeyError
			policyErr     *apperrors.PolicyViolationError
			transportErr  *apperrors.TransportError
			payloadErr    *validation.PayloadError
		)

		switch {
		case errors.As(err, &payloadErr):
			err = echo.NewHTTPError(http.StatusBadRequest, payloadErr)
		case errors.As(err, &validationErr):
			err = echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
		case errors.As(err, &notFoundErr):
			err = echo.NewHTTPError(http.StatusNotFound, notFoundErr.Error())
		case errors.As(err, &duplicateErr):
			err = echo.NewHTTPError(http.StatusConflict, duplicateErr.Error())
		case errors.As(err, &policyErr):
			err = echo.NewHTTPError(http.StatusForbidden, policyErr.Error())
		case errors.As(err, &transportErr):
			err = echo.NewHTTPError(http.StatusBadGateway, transportErr.Error())
		default:
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) {
				logrus.Errorf("unexpected error on request processing - %v", err)
				err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}
