package identity

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormStore keeps users in PostgreSQL through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) Create(ctx context.Context, u *User) error {
	return g.db.WithContext(ctx).Create(u).Error
}

func (g *GormStore) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := g.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUnknownUser
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (g *GormStore) AddGamePlayed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Model(&User{}).
		Where("id IN ?", ids).
		UpdateColumn("games_played", gorm.Expr("games_played + 1")).Error
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
