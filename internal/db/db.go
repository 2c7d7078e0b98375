package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"saas_admin/internal/models"
	"saas_admin/internal/platform/logger"
)

// Options selects the SQL backend. Driver is one of mysql, postgres or sqlite.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql", "pg":
		return postgres.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// GormConfig is shared by Connect and the test helpers so both translate driver errors the same way.
func GormConfig(log *logger.Logger, slow time.Duration) *gorm.Config {
	level := gormLogger.Warn
	if log == nil {
		level = gormLogger.Silent
		log = logger.Nop()
	}
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormLogger.New(log, gormLogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func Connect(opts Options, log *logger.Logger) (*gorm.DB, error) {
	d, err := dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(d, GormConfig(log, opts.SlowQuery))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	log.Info("database connected", "driver", opts.Driver)
	return gdb, nil
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&models.Permission{},
		&models.Account{},
		&models.Role{},
		&models.User{},
		&models.UserInvitation{},
		&models.Content{},
		&models.ContentVersion{},
		&models.Dashboard{},
		&models.DashboardCard{},
		&models.DashboardShare{},
		&models.MediaAsset{},
		&models.Webhook{},
		&models.WebhookDelivery{},
		&models.Workflow{},
		&models.WorkflowStage{},
		&models.MaintenanceWindow{},
		&models.AuditLog{},
	}
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
