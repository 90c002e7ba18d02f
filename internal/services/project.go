package services

import (
	"context"

	"github.com/marina-keet/MiaTech-sub000/internal/database"
)

// ProjectService — оракул владения проектами для политики доступа
// к комнатам. Реализует chat.ProjectOracle.
type ProjectService struct {
	db *database.Database
}

func NewProjectService(db *database.Database) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) IsProjectParticipant(ctx context.Context, identityID, projectID string) (bool, error) {
	return s.db.IsProjectParticipant(identityID, projectID)
}
