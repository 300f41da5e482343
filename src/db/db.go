package db

import (
	"log"

	"travl/src/config"
	"travl/src/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// Open connects to Postgres and sizes the pool from d.
func Open(dsn string, d config.Database) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := ConfigurePool(conn, d); err != nil {
		return nil, err
	}
	return conn, nil
}

func ConfigurePool(conn *gorm.DB, d config.Database) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(d.MaxIdleConns)
	sqlDB.SetMaxOpenConns(d.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(d.ConnMaxLifetime)
	return nil
}

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	conn, err := Open(config.GetDSN(), config.Get().Database)
	if err != nil {
		log.Fatalf("Error connecting to database: %s\n", err.Error())
	}
	db = conn
	return conn
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}

// Migrate creates or updates the booking tables.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&models.Booking{}, &models.Guest{})
}
