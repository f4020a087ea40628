// Package gorm provides a GORM implementation of the editorkit profile Store.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/editorkit/contrib/database/gorm"
//	    "gorm.io/driver/sqlite"
//	    gormpkg "gorm.io/gorm"
//	)
//
//	db, _ := gormpkg.Open(sqlite.Open("profiles.db"), &gormpkg.Config{})
//	store := gorm.NewDriver(db)
//	store.Migrate(ctx)
//	svc := host.New(registry, host.WithStore(store))
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/profile"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ProfileModel is the table row of a profile
type ProfileModel struct {
	Name            string         `gorm:"primaryKey;size:64"`
	Editor          string         `gorm:"size:64;not null;index"`
	Config          map[string]any `gorm:"serializer:json"`
	CheckCompatible bool           `gorm:"not null;default:false"`
	UpdatedAt       time.Time
}

// TableName overrides the default table name
func (ProfileModel) TableName() string {
	return "editor_profiles"
}

// Driver implements profile.Store using GORM
type Driver struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDriver creates a new GORM profile store
func NewDriver(db *gorm.DB) *Driver {
	return &Driver{db: db, now: time.Now}
}

// OpenSQLite opens a sqlite database, migrates it and returns the store
func OpenSQLite(ctx context.Context, dsn string) (*Driver, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	d := NewDriver(db)
	if err := d.Migrate(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// DB returns the underlying GORM database instance
func (d *Driver) DB() *gorm.DB {
	return d.db
}

// Migrate creates or updates the profiles table
func (d *Driver) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(&ProfileModel{}); err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}
	return nil
}

// Save inserts or replaces a profile
func (d *Driver) Save(ctx context.Context, p *profile.Profile) error {
	if p == nil || p.Name == "" {
		return errors.New("profile: name is required")
	}

	m := ProfileModel{
		Name:            p.Name,
		Editor:          p.Editor,
		Config:          p.Config.Clone(),
		CheckCompatible: p.CheckCompatible,
		UpdatedAt:       d.now().UTC(),
	}

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&m).Error
	if err != nil {
		return err
	}

	p.UpdatedAt = m.UpdatedAt
	return nil
}

// Get finds a profile by name
func (d *Driver) Get(ctx context.Context, name string) (*profile.Profile, error) {
	var m ProfileModel
	err := d.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profile.ErrNotFound
		}
		return nil, err
	}
	return m.toProfile(), nil
}

// List returns all profiles ordered by name
func (d *Driver) List(ctx context.Context) ([]*profile.Profile, error) {
	var rows []ProfileModel
	if err := d.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*profile.Profile, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toProfile())
	}
	return result, nil
}

// Delete removes a profile
func (d *Driver) Delete(ctx context.Context, name string) error {
	res := d.db.WithContext(ctx).Where("name = ?", name).Delete(&ProfileModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return profile.ErrNotFound
	}
	return nil
}

// Ping checks the database connection
func (d *Driver) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (d *Driver) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (m *ProfileModel) toProfile() *profile.Profile {
	return &profile.Profile{
		Name:            m.Name,
		Editor:          m.Editor,
		Config:          contracts.EditorConfig(m.Config),
		CheckCompatible: m.CheckCompatible,
		UpdatedAt:       m.UpdatedAt,
	}
}

// Ensure Driver implements profile.Store
var _ profile.Store = (*Driver)(nil)
