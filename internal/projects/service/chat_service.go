package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avan-studio/avan-backend/internal/generation"
	"github.com/avan-studio/avan-backend/internal/i18n"
	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/metrics"
	"github.com/avan-studio/avan-backend/internal/projects/domain"
	"github.com/avan-studio/avan-backend/internal/projects/repository"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

// CodeGenerator never fails: failures come back as displayable text.
type CodeGenerator interface {
	GenerateCode(ctx context.Context, prompt string, history []string, currentCode, lang string) string
}

// ChatService runs the project chat workflow: create, turn, save.
type ChatService struct {
	backend kv.Backend
	gen     CodeGenerator
	guard   TurnGuard
	now     func() time.Time
}

func NewChatService(backend kv.Backend, gen CodeGenerator, guard TurnGuard) *ChatService {
	return &ChatService{
		backend: backend,
		gen:     gen,
		guard:   guard,
		now:     time.Now,
	}
}

// TurnResult is the outcome of one turn. Reply is nil when nothing was generated.
type TurnResult struct {
	Project     *domain.Project     `json:"project"`
	UserMessage *domain.ChatMessage `json:"user_message,omitempty"`
	Reply       *domain.ChatMessage `json:"reply,omitempty"`
	CodeUpdated bool                `json:"code_updated"`
}

func (s *ChatService) repo(userID string) *repository.ProjectRepository {
	return repository.New(s.backend.For(userID))
}

// CreateProject starts a project from the home screen input. No generation happens here.
func (s *ChatService) CreateProject(ctx context.Context, userID, input string) (*domain.Project, error) {
	if strings.TrimSpace(input) == "" {
		metrics.RecordTurnRejected("empty")
		return nil, domain.ErrEmptyMessage
	}

	repo := s.repo(userID)
	now := s.now()

	for i := 0; i < 5; i++ {
		at := now.Add(time.Duration(i) * time.Millisecond)
		id := domain.NewProjectID(at)

		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		p := &domain.Project{
			ID:        id,
			Name:      domain.NameFromRequest(input),
			CreatedAt: at.UnixMilli(),
			Messages: []domain.ChatMessage{{
				ID:        domain.InitialMessageID,
				Role:      domain.RoleUser,
				Text:      input,
				Timestamp: at.UnixMilli(),
			}},
		}
		if err := repo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create project: %w", err)
		}

		logger.Ctx(ctx).Info().Str("user_id", userID).Str("project_id", id).Msg("project created")
		return p, nil
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

func (s *ChatService) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	return s.repo(userID).Get(ctx, projectID)
}

// Start answers the opening request of a new project. Projects that were already
// answered are returned untouched.
func (s *ChatService) Start(ctx context.Context, userID, projectID, lang string) (*TurnResult, error) {
	release, err := s.acquire(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	repo := s.repo(userID)
	p, err := repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.NeedsFirstGeneration() {
		return &TurnResult{Project: p}, nil
	}

	return s.runTurn(ctx, repo, p, p.Messages[0].Text, nil, lang)
}

// Submit appends the user's message, calls the model once and appends its reply.
func (s *ChatService) Submit(ctx context.Context, userID, projectID, text, lang string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		metrics.RecordTurnRejected("empty")
		return nil, domain.ErrEmptyMessage
	}

	release, err := s.acquire(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	repo := s.repo(userID)
	p, err := repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	history := domain.LastTexts(p.Messages, generation.MaxHistory)

	userMsg := domain.NewMessage(domain.RoleUser, text, s.now())
	p.Messages = append(p.Messages, userMsg)
	if err := repo.SaveMessages(ctx, p.ID, p.Messages); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	res, err := s.runTurn(ctx, repo, p, text, history, lang)
	if err != nil {
		return nil, err
	}
	res.UserMessage = &userMsg
	return res, nil
}

func (s *ChatService) runTurn(ctx context.Context, repo *repository.ProjectRepository, p *domain.Project, prompt string, history []string, lang string) (*TurnResult, error) {
	reply := s.gen.GenerateCode(ctx, prompt, history, p.CurrentCode, lang)
	parsed := generation.ParseResponse(reply, i18n.WebsiteReady(lang))

	res := &TurnResult{Project: p}
	if parsed.Code != "" {
		p.CurrentCode = parsed.Code
		res.CodeUpdated = true
		if err := repo.SaveCode(ctx, p.ID, p.CurrentCode); err != nil {
			return nil, fmt.Errorf("persist code: %w", err)
		}
	}

	modelMsg := domain.NewMessage(domain.RoleModel, parsed.Display, s.now())
	p.Messages = append(p.Messages, modelMsg)
	if err := repo.SaveMessages(ctx, p.ID, p.Messages); err != nil {
		return nil, fmt.Errorf("persist reply: %w", err)
	}

	res.Reply = &modelMsg
	return res, nil
}

func (s *ChatService) acquire(ctx context.Context, userID, projectID string) (func(), error) {
	release, ok, err := s.guard.TryAcquire(ctx, userID+"/"+projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.RecordTurnRejected("busy")
		return nil, domain.ErrGenerationInProgress
	}
	return release, nil
}

// Save snapshots the project into the saved list. A nil name keeps the current
// one; a blank name becomes DefaultSaveName.
func (s *ChatService) Save(ctx context.Context, userID, projectID string, name *string) (*domain.Project, error) {
	repo := s.repo(userID)
	p, err := repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		p.Name = strings.TrimSpace(*name)
		if p.Name == "" {
			p.Name = domain.DefaultSaveName
		}
	}

	if err := repo.SaveSnapshot(ctx, *p); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return p, nil
}

func (s *ChatService) ListSaved(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.repo(userID).ListSaved(ctx)
}

// Code returns the current artifact.
func (s *ChatService) Code(ctx context.Context, userID, projectID string) (string, error) {
	p, err := s.repo(userID).Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	if p.CurrentCode == "" {
		return "", domain.ErrNoCode
	}
	return p.CurrentCode, nil
}
