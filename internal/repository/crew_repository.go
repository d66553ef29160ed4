package repository

import (
	"context"
	"errors"

	"ai-assistant-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ICrewRepository interface {
	CreateAgent(ctx context.Context, agent *entity.AgentDefinition) error
	FindAgent(ctx context.Context, id uuid.UUID) (*entity.AgentDefinition, error)
	CreateTask(ctx context.Context, task *entity.TaskDefinition) error
	FindTasks(ctx context.Context, ids []uuid.UUID) ([]*entity.TaskDefinition, error)
	CreateCrew(ctx context.Context, crew *entity.CrewDefinition) error
	FindCrew(ctx context.Context, id uuid.UUID) (*entity.CrewDefinition, error)
}

type crewRepository struct {
	db *gorm.DB
}

func NewCrewRepository(db *gorm.DB) ICrewRepository {
	return &crewRepository{db: db}
}

func (r *crewRepository) CreateAgent(ctx context.Context, agent *entity.AgentDefinition) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

func (r *crewRepository) FindAgent(ctx context.Context, id uuid.UUID) (*entity.AgentDefinition, error) {
	var agent entity.AgentDefinition
	if err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

func (r *crewRepository) CreateTask(ctx context.Context, task *entity.TaskDefinition) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *crewRepository) FindTasks(ctx context.Context, ids []uuid.UUID) ([]*entity.TaskDefinition, error) {
	var tasks []*entity.TaskDefinition
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *crewRepository) CreateCrew(ctx context.Context, crew *entity.CrewDefinition) error {
	return r.db.WithContext(ctx).Create(crew).Error
}

func (r *crewRepository) FindCrew(ctx context.Context, id uuid.UUID) (*entity.CrewDefinition, error) {
	var crew entity.CrewDefinition
	err := r.db.WithContext(ctx).Preload("Tasks").First(&crew, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &crew, nil
}
