// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"dormitory-backend/internal/database"
	"dormitory-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewDB opens a fresh migrated in-memory database private to the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("NewDB() migrate failed: %v", err)
	}
	return db
}

// Fixture builds a small world: one university, one dormitory with its admin
type Fixture struct {
	DB         *gorm.DB
	SuperAdmin models.User
	Admin      models.User
	University models.University
	Dormitory  models.Dormitory
}

// NewFixture creates a database with a superadmin, a dormitory admin and their dormitory
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	db := NewDB(t)

	f := &Fixture{DB: db}
	f.SuperAdmin = CreateUser(t, db, "root", models.RoleSuperAdmin)
	f.Admin = CreateUser(t, db, "dorm-admin", models.RoleAdmin)

	f.University = models.University{Name: "TATU", Address: "Tashkent"}
	mustCreate(t, db, &f.University)

	f.Dormitory = models.Dormitory{
		Name:         "Dorm 1",
		Address:      "Amir Temur 108",
		UniversityID: f.University.ID,
		AdminID:      f.Admin.ID,
		IsActive:     true,
	}
	mustCreate(t, db, &f.Dormitory)
	return f
}

// CreateUser inserts a user with a throwaway password hash
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x", Role: role, IsActive: true}
	mustCreate(t, db, &user)
	return user
}

// CreateFloor inserts a floor in the dormitory
func (f *Fixture) CreateFloor(t *testing.T, name string, gender models.Gender) models.Floor {
	t.Helper()
	floor := models.Floor{DormitoryID: f.Dormitory.ID, Name: name, Gender: gender}
	mustCreate(t, f.DB, &floor)
	return floor
}

// CreateRoom inserts an empty room on the floor
func (f *Fixture) CreateRoom(t *testing.T, floor models.Floor, name string, capacity int) models.Room {
	t.Helper()
	room := models.Room{
		FloorID:  floor.ID,
		Name:     name,
		Capacity: capacity,
		Status:   models.RoomAvailable,
		Gender:   floor.Gender,
	}
	mustCreate(t, f.DB, &room)
	return room
}

// Reload re-reads a room from the database
func (f *Fixture) Reload(t *testing.T, room models.Room) models.Room {
	t.Helper()
	var fresh models.Room
	if err := f.DB.First(&fresh, room.ID).Error; err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	return fresh
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T failed: %v", value, err)
	}
}
