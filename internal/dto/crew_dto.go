package dto

import "github.com/google/uuid"

type CreateAgentRequest struct {
	Role      string `json:"role" validate:"required"`
	Goal      string `json:"goal" validate:"required"`
	Backstory string `json:"backstory"`
}

type CreateAgentResponse struct {
	Id uuid.UUID `json:"id"`
}

type CreateTaskRequest struct {
	Description    string    `json:"description" validate:"required"`
	ExpectedOutput string    `json:"expected_output"`
	AgentId        uuid.UUID `json:"agent_id" validate:"required"`
}

type CreateTaskResponse struct {
	Id uuid.UUID `json:"id"`
}

type CreateCrewRequest struct {
	Name    string      `json:"name" validate:"required"`
	TaskIds []uuid.UUID `json:"task_ids" validate:"required,min=1"`
}

type CreateCrewResponse struct {
	Id uuid.UUID `json:"id"`
}

// TaskRunResult is the output of one task in a sequential kickoff.
type TaskRunResult struct {
	TaskId uuid.UUID `json:"task_id"`
	Agent  string    `json:"agent"`
	Output string    `json:"output"`
}

type KickoffResponse struct {
	CrewId  uuid.UUID       `json:"crew_id"`
	Results []TaskRunResult `json:"results"`
}
