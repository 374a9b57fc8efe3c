package cmd

import (
	"context"
	"errors"
	"fmt"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/data/repository/memory"
	"cinephile/internal/dto/request"
	"cinephile/internal/usecase"
	"cinephile/internal/validation"
	"cinephile/internal/wire"
	"cinephile/pkg/database"
	"cinephile/pkg/utils"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Root is the cinephile command line. Without a subcommand it serves HTTP.
func Root() *cli.Command {
	return &cli.Command{
		Name:  "cinephile",
		Usage: "Cinema ticket booking server",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			createSuperuserCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx)
		},
	}
}

// runtime is the configured process state shared by every command.
type runtime struct {
	config *utils.Config
	logger *zap.Logger
	db     *database.DB
	repo   *repository.Repository
}

func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
	_ = rt.logger.Sync()
}

// bootstrap loads configuration, builds the logger and opens the selected
// store. PostgreSQL is migrated when DB_AUTO_MIGRATE is set and its foreign
// keys are checked against the declared delete policies.
func bootstrap(ctx context.Context, migrate bool) (*runtime, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App, config.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	rt := &runtime{config: config, logger: logger}

	if config.Database.Driver == utils.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on exit")
		rt.repo = memory.NewRepository()
		return rt, nil
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	rt.db = db
	logger.Info("Database connected successfully",
		zap.String("host", config.Database.Host),
		zap.String("name", config.Database.Name),
	)

	if migrate {
		if config.Database.AutoMigrate {
			if err := database.RunMigrations(ctx, db); err != nil {
				rt.Close()
				return nil, err
			}
			logger.Info("Migrations applied")
		}
		if err := repository.CheckDeletePolicies(ctx, db, entity.Relations); err != nil {
			rt.Close()
			return nil, fmt.Errorf("check schema: %w", err)
		}
	}

	rt.repo = repository.NewRepository(db, logger)
	return rt, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	rt, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("Starting application",
		zap.String("app", rt.config.App.Name),
		zap.String("port", rt.config.App.Port),
		zap.String("db_driver", rt.config.Database.Driver),
		zap.String("booking_mode", rt.config.Booking.Mode),
		zap.Bool("debug", rt.config.App.Debug),
	)

	app := wire.Wiring(rt.repo, rt.config, rt.logger)
	return APIServer(ctx, app.Router, rt.config.App.Port, rt.logger)
}

func migrateCommand() *cli.Command {
	withDB := func(run func(ctx context.Context, db *database.DB) error) cli.ActionFunc {
		return func(ctx context.Context, c *cli.Command) error {
			rt, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.db == nil {
				return errors.New("migrations need DB_DRIVER=postgres")
			}
			return run(ctx, rt.db)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the PostgreSQL schema",
		Commands: []*cli.Command{
			{Name: "up", Usage: "Apply pending migrations", Action: withDB(database.RunMigrations)},
			{Name: "status", Usage: "Show migration status", Action: withDB(database.MigrationStatus)},
			{Name: "down", Usage: "Roll back the latest migration", Action: withDB(database.RollbackMigration)},
		},
	}
}

func createSuperuserCommand() *cli.Command {
	return &cli.Command{
		Name:  "createsuperuser",
		Usage: "Create an administrator account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email"},
			&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("CINEPHILE_SUPERUSER_PASSWORD")},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			username, email, password := c.String("username"), c.String("email"), c.String("password")
			service := usecase.NewService(rt.repo, rt.config, rt.logger)
			user, err := service.User.CreateSuperuser(ctx, &request.UserRequest{
				Username: &username,
				Email:    &email,
				Password: &password,
			})
			if err != nil {
				var verr validation.Errors
				if errors.As(err, &verr) {
					return fmt.Errorf("superuser not created: %s", verr.Error())
				}
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Superuser %s created (%s)\n", user.Username, user.ID)
			return nil
		},
	}
}
