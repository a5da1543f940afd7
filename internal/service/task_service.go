package service

import (
	"fmt"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
)

// TaskService keeps the personal to-do list of each user
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type TaskInput struct {
	Title       *string            `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

func (s *TaskService) GetTasks(userID uint, status models.TaskStatus) ([]models.Task, error) {
	return s.taskRepo.GetTasksByUser(userID, status)
}

func (s *TaskService) GetTask(userID, id uint) (*models.Task, error) {
	return s.taskRepo.GetTask(userID, id)
}

func (s *TaskService) CreateTask(userID uint, in TaskInput) (*models.Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, invalidf("title is required")
	}
	task := &models.Task{
		UserID: userID,
		Title:  strings.TrimSpace(*in.Title),
		Status: models.TaskPending,
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if err := s.taskRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(userID, id uint, in TaskInput) (*models.Task, error) {
	if _, err := s.taskRepo.GetTask(userID, id); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if len(updates) > 0 {
		if err := s.taskRepo.UpdateTask(userID, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}
	return s.taskRepo.GetTask(userID, id)
}

func (s *TaskService) DeleteTask(userID, id uint) error {
	return s.taskRepo.DeleteTask(userID, id)
}
