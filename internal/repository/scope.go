package repository

import (
	"errors"
	"fmt"

	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every lookup that matches no row visible to the caller
var ErrNotFound = errors.New("not found")

func translate(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return err
}

// Scope describes who is asking; repositories use it to narrow every query
// to the rows the caller is allowed to see
type Scope struct {
	UserID      uint
	Role        models.Role
	DormitoryID uint // dormitory administered by the caller, 0 if none
	FloorID     uint // floor led by the caller, 0 if none
}

// IsSuperAdmin reports whether the scope is unrestricted
func (s Scope) IsSuperAdmin() bool {
	return s.Role == models.RoleSuperAdmin
}

// IsDormitoryAdmin reports whether the caller administers a dormitory
func (s Scope) IsDormitoryAdmin() bool {
	return s.Role == models.RoleAdmin && s.DormitoryID != 0
}

// IsFloorLeader reports whether the caller leads a floor
func (s Scope) IsFloorLeader() bool {
	return s.FloorID != 0
}

func nothing(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

func subquery(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}

// Dormitories limits a table that carries a dormitory_id column
func (s Scope) Dormitories(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case s.IsSuperAdmin():
			return db
		case s.IsDormitoryAdmin():
			return db.Where(column+" = ?", s.DormitoryID)
		default:
			return nothing(db)
		}
	}
}

// Floors limits the floors table
func (s Scope) Floors() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case s.IsSuperAdmin():
			return db
		case s.IsDormitoryAdmin():
			return db.Where("floors.dormitory_id = ?", s.DormitoryID)
		case s.IsFloorLeader():
			return db.Where("floors.id = ?", s.FloorID)
		default:
			return nothing(db)
		}
	}
}

// Rooms limits the rooms table through the floor they are on
func (s Scope) Rooms() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case s.IsSuperAdmin():
			return db
		case s.IsDormitoryAdmin():
			floors := subquery(db).Model(&models.Floor{}).Select("id").Where("dormitory_id = ?", s.DormitoryID)
			return db.Where("rooms.floor_id IN (?)", floors)
		case s.IsFloorLeader():
			return db.Where("rooms.floor_id = ?", s.FloorID)
		default:
			return nothing(db)
		}
	}
}

// Students limits the students table; plain students see their own record only
func (s Scope) Students() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case s.IsSuperAdmin():
			return db
		case s.IsDormitoryAdmin():
			return db.Where("students.dormitory_id = ?", s.DormitoryID)
		case s.IsFloorLeader():
			return db.Where("students.floor_id = ? OR students.user_id = ?", s.FloorID, s.UserID)
		default:
			return db.Where("students.user_id = ?", s.UserID)
		}
	}
}

// Payments limits the payments table; students see payments of their own record
func (s Scope) Payments() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case s.IsSuperAdmin():
			return db
		case s.IsDormitoryAdmin():
			return db.Where("payments.dormitory_id = ?", s.DormitoryID)
		default:
			own := subquery(db).Model(&models.Student{}).Select("id").Where("user_id = ?", s.UserID)
			return db.Where("payments.student_id IN (?)", own)
		}
	}
}

// Applications limits the applications table; applicants see their own
func (s Scope) Applications() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case s.IsSuperAdmin():
			return db
		case s.IsDormitoryAdmin():
			return db.Where("applications.dormitory_id = ?", s.DormitoryID)
		default:
			return db.Where("applications.user_id = ?", s.UserID)
		}
	}
}

// Page is a 1-based page request
type Page struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Normalize clamps the page request to sane bounds
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return db.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
}
