package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentDefinition describes one reusable worker persona for crew runs.
type AgentDefinition struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Role      string         `gorm:"type:varchar(255);not null"`
	Goal      string         `gorm:"type:text;not null"`
	Backstory string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AgentDefinition) TableName() string {
	return "agent_definitions"
}

// TaskDefinition binds a work description to the agent that executes it.
type TaskDefinition struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Description    string         `gorm:"type:text;not null"`
	ExpectedOutput string         `gorm:"type:text"`
	AgentId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (TaskDefinition) TableName() string {
	return "task_definitions"
}

// CrewDefinition groups tasks into one sequential run.
type CrewDefinition struct {
	Id        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string           `gorm:"type:varchar(255);not null"`
	Tasks     []TaskDefinition `gorm:"many2many:crew_tasks;"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt   `gorm:"index"`
}

func (CrewDefinition) TableName() string {
	return "crew_definitions"
}
