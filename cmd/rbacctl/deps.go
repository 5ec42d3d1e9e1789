package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/config"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/db"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/password"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/rbac"
	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/rbac-in-go/pkg/server/store/gorm"
)

// deps is what most commands need: validated configuration, a logger
// and services over an open database.
type deps struct {
	cfg      *config.RBACConfig
	logger   *logrus.Logger
	db       *gorm.DB
	store    store.Store
	hasher   *password.Bcrypt
	services *rbac.Services
}

func loadConfig() (*config.RBACConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDeps() (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger()

	if os.Getenv("DATABASE_URL") == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	st := gormstore.NewStore(database)
	return &deps{
		cfg:      cfg,
		logger:   logger,
		db:       database,
		store:    st,
		hasher:   hasher,
		services: rbac.NewServices(st, hasher),
	}, nil
}
