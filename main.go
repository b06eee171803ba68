package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/MiladArbabi/aurora-baby-mvp/authentication"
	"github.com/MiladArbabi/aurora-baby-mvp/generator"
	"github.com/MiladArbabi/aurora-baby-mvp/journeys"
	"github.com/MiladArbabi/aurora-baby-mvp/log"
	"github.com/MiladArbabi/aurora-baby-mvp/profiles"
	. "github.com/MiladArbabi/aurora-baby-mvp/shared"
	. "github.com/MiladArbabi/aurora-baby-mvp/store"
	"github.com/MiladArbabi/aurora-baby-mvp/store/migrations"
	"github.com/MiladArbabi/aurora-baby-mvp/users"

	"github.com/facebookgo/inject"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
)

var (
	ctx             = context.Background()
	logger          = log.NewLogger("aurorababy")
	config          *AppConfig
	db              *gorm.DB
	stringGenerator = &generator.StringGenerator{}

	userService    = &users.UserService{}
	profileService = &profiles.ProfileService{}
	journeyService = &journeys.JourneyService{}

	userHandlerFactory    = &users.HandlerFactory{}
	profileHandlerFactory = &profiles.HandlerFactory{}
	journeyHandlerFactory = &journeys.HandlerFactory{}

	dbStore       = &Store{}
	tokenService  = &authentication.TokenService{}
	authenticator = &authentication.Authenticator{}
)

func init() {
	checkErrAndExit(initAppConfiguration())
	checkErrAndExit(initDbConnection())
	checkErrAndExit(initApplicationGraph())
}

func initAppConfiguration() (err error) {
	config, err = InitAppConfiguration()
	return
}

func initDbConnection() (err error) {
	db, err = gorm.Open(config.SqlDialect, config.ConnectString())
	if err != nil {
		return
	}

	db.LogMode(true)
	db.SetLogger(logger)
	return
}

func initApplicationGraph() error {
	g := inject.Graph{}
	g.Provide(
		&inject.Object{Value: config},
		&inject.Object{Value: userService},
		&inject.Object{Value: profileService},
		&inject.Object{Value: journeyService},
		&inject.Object{Value: userHandlerFactory},
		&inject.Object{Value: profileHandlerFactory},
		&inject.Object{Value: journeyHandlerFactory},
		&inject.Object{Value: db},
		&inject.Object{Value: stringGenerator},
		&inject.Object{Value: dbStore},
		&inject.Object{Value: tokenService},
		&inject.Object{Value: authenticator},
		&inject.Object{Value: logger},
	)
	if err := g.Populate(); err != nil {
		return errors.Wrap(err, "failed to populate")
	}
	return nil
}

func main() {
	if config.SqlDialect == "sqlite3" {
		checkErrAndExit(dbStore.Bootstrap())
	} else if config.StartupMigration {
		applySqlSchemaMigrations(ctx)
	}
	startHttpServer(ctx)
}

func applySqlSchemaMigrations(ctx context.Context) {
	logger.Info(ctx, "applying sql schema migrations")
	migrationResult := migrations.Up(migrations.ApplyOptions{
		SourceURL: fmt.Sprintf("file://%s", config.SqlMigrationsSourceDir),
		DatabaseURL: fmt.Sprintf("postgres://%v:%v/%v?sslmode=disable&user=%s&password=%s",
			config.PgContactPoint, config.PgContactPort, config.PgDbName, config.PgUsername, config.PgPassword),
	})
	checkErrAndExit(migrationResult.Err)
	if !migrationResult.Changes {
		logger.Info(ctx, "no new migrations applied")
	}
}

func startHttpServer(ctx context.Context) {
	userOpts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(logger),
		kithttp.ServerErrorEncoder(users.EncodeError),
	}

	profileOpts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(logger),
		kithttp.ServerErrorEncoder(profiles.EncodeError),
	}

	journeyOpts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(logger),
		kithttp.ServerErrorEncoder(journeys.EncodeError),
	}

	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.Handle("/register", userHandlerFactory.Register(userOpts)).Methods(http.MethodPost)
	apiRouter.Handle("/login", userHandlerFactory.Login(userOpts)).Methods(http.MethodPost)
	apiRouter.Handle("/users", userHandlerFactory.List(userOpts)).Methods(http.MethodGet)
	apiRouter.Handle("/users", userHandlerFactory.Add(userOpts)).Methods(http.MethodPost)

	apiRouter.Handle("/profiles", authenticator.Verify(profileHandlerFactory.Create(profileOpts))).Methods(http.MethodPost)
	apiRouter.Handle("/profiles", authenticator.Verify(profileHandlerFactory.Get(profileOpts))).Methods(http.MethodGet)

	apiRouter.Handle("/onboard", journeyHandlerFactory.Onboard(journeyOpts)).Methods(http.MethodPost)
	apiRouter.Handle("/journey/activity", authenticator.Verify(journeyHandlerFactory.LogActivity(journeyOpts))).Methods(http.MethodPost)
	apiRouter.Handle("/journey/progress", authenticator.Verify(journeyHandlerFactory.Progress(journeyOpts))).Methods(http.MethodGet)
	apiRouter.Handle("/care/log", authenticator.Verify(journeyHandlerFactory.LogCare(journeyOpts))).Methods(http.MethodPost)
	apiRouter.Handle("/ar/content", authenticator.Verify(journeyHandlerFactory.ArContent(journeyOpts))).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{config.FrontendOrigin}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)

	checkErrAndExit(http.ListenAndServe("0.0.0.0:"+config.HttpPort,
		logger.RequestLoggerMiddleware(
			cors(router),
		),
	))
}

func checkErrAndExit(err error) {
	if err == nil {
		return
	}
	fmt.Println(err.Error())
	os.Exit(1)
}
