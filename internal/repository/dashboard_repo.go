package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type countRow struct {
	Label string
	Count int64
}

func (r *DashboardRepository) groupCount(query *gorm.DB, column string) (map[string]int64, error) {
	var rows []countRow
	err := query.Select(column + " AS label, COUNT(*) AS count").Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Count
	}
	return counts, nil
}

// StudentsByPlacement counts students grouped by placement status
func (r *DashboardRepository) StudentsByPlacement(dormitoryID uint) (map[string]int64, error) {
	return r.groupCount(r.students(dormitoryID), "placement_status")
}

// StudentsByStatus counts students grouped by debt status
func (r *DashboardRepository) StudentsByStatus(dormitoryID uint) (map[string]int64, error) {
	return r.groupCount(r.students(dormitoryID), "status")
}

// RoomsByStatus counts rooms grouped by status
func (r *DashboardRepository) RoomsByStatus(dormitoryID uint) (map[string]int64, error) {
	return r.groupCount(r.rooms(dormitoryID), "status")
}

// Capacity returns the total number of beds and the number of occupied ones
func (r *DashboardRepository) Capacity(dormitoryID uint) (capacity int64, occupied int64, err error) {
	var row struct {
		Capacity int64
		Occupied int64
	}
	err = r.rooms(dormitoryID).
		Select("COALESCE(SUM(capacity), 0) AS capacity, COALESCE(SUM(current_occupancy), 0) AS occupied").
		Scan(&row).Error
	return row.Capacity, row.Occupied, err
}

func (r *DashboardRepository) students(dormitoryID uint) *gorm.DB {
	query := r.db.Model(&models.Student{})
	if dormitoryID != 0 {
		query = query.Where("dormitory_id = ?", dormitoryID)
	}
	return query
}

func (r *DashboardRepository) rooms(dormitoryID uint) *gorm.DB {
	query := r.db.Model(&models.Room{})
	if dormitoryID != 0 {
		floors := subquery(r.db).Model(&models.Floor{}).Select("id").Where("dormitory_id = ?", dormitoryID)
		query = query.Where("floor_id IN (?)", floors)
	}
	return query
}
