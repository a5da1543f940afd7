package repository

import (
	"time"

	"dormitory-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FloorLeaderRepository struct {
	db *gorm.DB
}

func NewFloorLeaderRepo(db *gorm.DB) *FloorLeaderRepository {
	return &FloorLeaderRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *FloorLeaderRepository) WithTx(tx *gorm.DB) *FloorLeaderRepository {
	return &FloorLeaderRepository{db: tx}
}

// GetByUserID returns the floor leadership held by a user
func (r *FloorLeaderRepository) GetByUserID(userID uint) (*models.FloorLeader, error) {
	var leader models.FloorLeader
	err := r.db.Preload("Floor").Where("user_id = ?", userID).First(&leader).Error
	if err != nil {
		return nil, translate(err, "floor leader")
	}
	return &leader, nil
}

// GetByFloorID returns the leader of a floor
func (r *FloorLeaderRepository) GetByFloorID(floorID uint) (*models.FloorLeader, error) {
	var leader models.FloorLeader
	err := r.db.Where("floor_id = ?", floorID).First(&leader).Error
	if err != nil {
		return nil, translate(err, "floor leader")
	}
	return &leader, nil
}

// ListByDormitory lists the floor leaders of a dormitory (0 means every dormitory)
func (r *FloorLeaderRepository) ListByDormitory(dormitoryID uint) ([]models.FloorLeader, error) {
	query := r.db.Model(&models.FloorLeader{}).Preload("Floor").Preload("User")
	if dormitoryID != 0 {
		floors := subquery(r.db).Model(&models.Floor{}).Select("id").Where("dormitory_id = ?", dormitoryID)
		query = query.Where("floor_id IN (?)", floors)
	}
	var leaders []models.FloorLeader
	err := query.Order("floor_id ASC").Find(&leaders).Error
	return leaders, err
}

// Assign makes the user the leader of the floor, replacing any previous leader
func (r *FloorLeaderRepository) Assign(leader *models.FloorLeader) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "floor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id"}),
	}).Create(leader).Error
}

// Remove deletes the leadership of a floor
func (r *FloorLeaderRepository) Remove(floorID uint) error {
	result := r.db.Where("floor_id = ?", floorID).Delete(&models.FloorLeader{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "floor leader")
	}
	return nil
}

// GetSessionByID retrieves a roll call with its marks
func (r *FloorLeaderRepository) GetSessionByID(id uint) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	if err := r.db.Preload("Records.Student").First(&session, id).Error; err != nil {
		return nil, translate(err, "attendance session")
	}
	return &session, nil
}

// GetSession returns the roll call of a floor on a date
func (r *FloorLeaderRepository) GetSession(floorID uint, date time.Time) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	err := r.db.Where("floor_id = ? AND date = ?", floorID, models.NewDate(date)).First(&session).Error
	if err != nil {
		return nil, translate(err, "attendance session")
	}
	return &session, nil
}

// CreateSession creates a roll call
func (r *FloorLeaderRepository) CreateSession(session *models.AttendanceSession) error {
	return r.db.Create(session).Error
}

// UpsertRecords writes the marks of a session, overwriting earlier marks of the same students
func (r *FloorLeaderRepository) UpsertRecords(records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(&records).Error
}

// ListSessions lists the roll calls of a floor, newest first, with their marks
func (r *FloorLeaderRepository) ListSessions(floorID uint, page Page) ([]models.AttendanceSession, int64, error) {
	query := r.db.Model(&models.AttendanceSession{}).Where("floor_id = ?", floorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.AttendanceSession
	err := query.Scopes(page.apply).
		Preload("Records.Student").
		Order("date DESC").
		Find(&sessions).Error
	return sessions, total, err
}

// CreateCollection creates a fee collection together with its records
func (r *FloorLeaderRepository) CreateCollection(collection *models.Collection) error {
	return r.db.Create(collection).Error
}

// GetCollection retrieves a collection with its records
func (r *FloorLeaderRepository) GetCollection(id uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.Preload("Records.Student").First(&collection, id).Error
	if err != nil {
		return nil, translate(err, "collection")
	}
	return &collection, nil
}

// ListCollections lists the collections of a floor, newest first
func (r *FloorLeaderRepository) ListCollections(floorID uint, page Page) ([]models.Collection, int64, error) {
	query := r.db.Model(&models.Collection{}).Where("floor_id = ?", floorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var collections []models.Collection
	err := query.Scopes(page.apply).
		Preload("Records").
		Order("id DESC").
		Find(&collections).Error
	return collections, total, err
}

// SetCollectionPaid marks a student's record of a collection as paid or unpaid
func (r *FloorLeaderRepository) SetCollectionPaid(collectionID, studentID uint, paid bool, at *time.Time) error {
	result := r.db.Model(&models.CollectionRecord{}).
		Where("collection_id = ? AND student_id = ?", collectionID, studentID).
		Updates(map[string]interface{}{"paid": paid, "paid_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "collection record")
	}
	return nil
}

// DeleteCollection removes a collection and its records
func (r *FloorLeaderRepository) DeleteCollection(id uint) error {
	if err := r.db.Where("collection_id = ?", id).Delete(&models.CollectionRecord{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Collection{}, id).Error
}
