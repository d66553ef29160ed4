package service

import (
	"context"
	"fmt"
	"strings"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/pool"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICrewService interface {
	CreateAgent(ctx context.Context, req *dto.CreateAgentRequest) (*dto.CreateAgentResponse, error)
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.CreateTaskResponse, error)
	CreateCrew(ctx context.Context, req *dto.CreateCrewRequest) (*dto.CreateCrewResponse, error)
	Kickoff(ctx context.Context, crewId uuid.UUID) (*dto.KickoffResponse, error)
}

// crewService persists agent/task/crew definitions and runs crews
// sequentially: each task goes through the shared LLM pool with its agent's
// persona as the system turn, and each output feeds the next task as context.
type crewService struct {
	crews  repository.ICrewRepository
	pool   pool.ClientPool
	logger logger.ILogger
}

func NewCrewService(crews repository.ICrewRepository, clientPool pool.ClientPool, sysLogger logger.ILogger) ICrewService {
	return &crewService{
		crews:  crews,
		pool:   clientPool,
		logger: sysLogger,
	}
}

func (s *crewService) CreateAgent(ctx context.Context, req *dto.CreateAgentRequest) (*dto.CreateAgentResponse, error) {
	agent := &entity.AgentDefinition{
		Id:        uuid.New(),
		Role:      req.Role,
		Goal:      req.Goal,
		Backstory: req.Backstory,
	}
	if err := s.crews.CreateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return &dto.CreateAgentResponse{Id: agent.Id}, nil
}

func (s *crewService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.CreateTaskResponse, error) {
	agent, err := s.crews.FindAgent(ctx, req.AgentId)
	if err != nil {
		return nil, fmt.Errorf("find agent: %w", err)
	}
	if agent == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "agent not found")
	}

	task := &entity.TaskDefinition{
		Id:             uuid.New(),
		Description:    req.Description,
		ExpectedOutput: req.ExpectedOutput,
		AgentId:        agent.Id,
	}
	if err := s.crews.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &dto.CreateTaskResponse{Id: task.Id}, nil
}

func (s *crewService) CreateCrew(ctx context.Context, req *dto.CreateCrewRequest) (*dto.CreateCrewResponse, error) {
	tasks, err := s.crews.FindTasks(ctx, req.TaskIds)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	if len(tasks) != len(req.TaskIds) {
		return nil, fiber.NewError(fiber.StatusNotFound, "one or more tasks not found")
	}

	crew := &entity.CrewDefinition{
		Id:   uuid.New(),
		Name: req.Name,
	}
	crew.Tasks = make([]entity.TaskDefinition, len(tasks))
	for i, t := range tasks {
		crew.Tasks[i] = *t
	}

	if err := s.crews.CreateCrew(ctx, crew); err != nil {
		return nil, fmt.Errorf("create crew: %w", err)
	}
	return &dto.CreateCrewResponse{Id: crew.Id}, nil
}

func (s *crewService) Kickoff(ctx context.Context, crewId uuid.UUID) (*dto.KickoffResponse, error) {
	crew, err := s.crews.FindCrew(ctx, crewId)
	if err != nil {
		return nil, fmt.Errorf("find crew: %w", err)
	}
	if crew == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "crew not found")
	}
	if len(crew.Tasks) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "crew has no tasks")
	}

	s.logger.Info("crew", "kickoff started", map[string]interface{}{
		"crew_id": crewId.String(),
		"tasks":   len(crew.Tasks),
	})

	results := make([]dto.TaskRunResult, 0, len(crew.Tasks))
	previousOutput := ""

	for _, task := range crew.Tasks {
		agent, err := s.crews.FindAgent(ctx, task.AgentId)
		if err != nil {
			return nil, fmt.Errorf("find agent for task %s: %w", task.Id, err)
		}
		if agent == nil {
			return nil, fmt.Errorf("task %s references a missing agent", task.Id)
		}

		output, err := s.runTask(ctx, agent, &task, previousOutput)
		if err != nil {
			return nil, fmt.Errorf("run task %s: %w", task.Id, err)
		}

		results = append(results, dto.TaskRunResult{
			TaskId: task.Id,
			Agent:  agent.Role,
			Output: output,
		})
		previousOutput = output
	}

	return &dto.KickoffResponse{CrewId: crewId, Results: results}, nil
}

func (s *crewService) runTask(ctx context.Context, agent *entity.AgentDefinition, task *entity.TaskDefinition, previousOutput string) (string, error) {
	var system strings.Builder
	system.WriteString(fmt.Sprintf("You are %s.\nYour goal: %s\n", agent.Role, agent.Goal))
	if agent.Backstory != "" {
		system.WriteString("Backstory: " + agent.Backstory + "\n")
	}

	var user strings.Builder
	user.WriteString("Task: " + task.Description + "\n")
	if task.ExpectedOutput != "" {
		user.WriteString("Expected output: " + task.ExpectedOutput + "\n")
	}
	if previousOutput != "" {
		user.WriteString("\nOutput of the previous task:\n" + previousOutput + "\n")
	}

	client := s.pool.Next()
	reply, err := client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system.String()},
		{Role: llm.RoleUser, Content: user.String()},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
