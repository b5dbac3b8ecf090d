package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avan-studio/avan-backend/internal/projects/domain"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

const SavedProjectsKey = "savedProjects"

func MessagesKey(projectID string) string { return "project_" + projectID + "_messages" }
func CodeKey(projectID string) string     { return "project_" + projectID + "_code" }
func MetaKey(projectID string) string     { return "project_" + projectID + "_meta" }

// ProjectRepository persists projects into one user's key/value namespace.
// Every write goes straight to the store.
type ProjectRepository struct {
	kv kv.Store
}

func New(store kv.Store) *ProjectRepository {
	return &ProjectRepository{kv: store}
}

func (r *ProjectRepository) Exists(ctx context.Context, projectID string) (bool, error) {
	_, ok, err := r.kv.Get(ctx, MetaKey(projectID))
	return ok, err
}

// Create writes meta, transcript and (empty) code for a new project.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	meta, err := json.Marshal(p.Meta())
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if err := r.kv.Set(ctx, MetaKey(p.ID), string(meta)); err != nil {
		return err
	}
	if err := r.SaveMessages(ctx, p.ID, p.Messages); err != nil {
		return err
	}
	return r.SaveCode(ctx, p.ID, p.CurrentCode)
}

func (r *ProjectRepository) SaveMessages(ctx context.Context, projectID string, msgs []domain.ChatMessage) error {
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	return r.kv.Set(ctx, MessagesKey(projectID), string(b))
}

func (r *ProjectRepository) SaveCode(ctx context.Context, projectID, code string) error {
	return r.kv.Set(ctx, CodeKey(projectID), code)
}

// Get assembles a project from its per-id keys, falling back to the saved snapshot
// for anything the per-id keys do not hold.
func (r *ProjectRepository) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	var snapshot *domain.Project
	saved, err := r.ListSaved(ctx)
	if err != nil {
		return nil, err
	}
	for i := range saved {
		if saved[i].ID == projectID {
			snapshot = &saved[i]
			break
		}
	}

	p := &domain.Project{ID: projectID}

	rawMeta, hasMeta, err := r.kv.Get(ctx, MetaKey(projectID))
	if err != nil {
		return nil, err
	}
	switch {
	case hasMeta:
		var m domain.Meta
		if err := json.Unmarshal([]byte(rawMeta), &m); err != nil {
			return nil, fmt.Errorf("decode meta for %s: %w", projectID, err)
		}
		p.Name, p.CreatedAt = m.Name, m.CreatedAt
	case snapshot != nil:
		p.Name, p.CreatedAt = snapshot.Name, snapshot.CreatedAt
	default:
		return nil, domain.ErrNotFound
	}
	// a snapshot's display name wins over the name picked at creation
	if snapshot != nil {
		p.Name = snapshot.Name
	}

	rawMsgs, hasMsgs, err := r.kv.Get(ctx, MessagesKey(projectID))
	if err != nil {
		return nil, err
	}
	if hasMsgs {
		if err := json.Unmarshal([]byte(rawMsgs), &p.Messages); err != nil {
			return nil, fmt.Errorf("decode messages for %s: %w", projectID, err)
		}
	} else if snapshot != nil {
		p.Messages = snapshot.Messages
	}
	if p.Messages == nil {
		p.Messages = []domain.ChatMessage{}
	}

	code, hasCode, err := r.kv.Get(ctx, CodeKey(projectID))
	if err != nil {
		return nil, err
	}
	if hasCode && code != "" {
		p.CurrentCode = code
	} else if snapshot != nil {
		p.CurrentCode = snapshot.CurrentCode
	}

	return p, nil
}

// ListSaved returns the saved projects, most recently saved first.
func (r *ProjectRepository) ListSaved(ctx context.Context) ([]domain.Project, error) {
	raw, ok, err := r.kv.Get(ctx, SavedProjectsKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []domain.Project{}, nil
	}

	var out []domain.Project
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode saved projects: %w", err)
	}
	if out == nil {
		out = []domain.Project{}
	}
	return out, nil
}

// SaveSnapshot drops any entry with the same id and puts p at the front.
// The list has no cap.
func (r *ProjectRepository) SaveSnapshot(ctx context.Context, p domain.Project) error {
	saved, err := r.ListSaved(ctx)
	if err != nil {
		return err
	}

	next := make([]domain.Project, 0, len(saved)+1)
	next = append(next, p)
	for _, s := range saved {
		if s.ID != p.ID {
			next = append(next, s)
		}
	}

	b, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal saved projects: %w", err)
	}
	return r.kv.Set(ctx, SavedProjectsKey, string(b))
}
