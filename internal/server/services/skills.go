package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/dbx"
	"github.com/learninfinity/learninfinity/internal/server/config"
	"github.com/learninfinity/learninfinity/internal/server/models"
	"github.com/learninfinity/learninfinity/internal/server/repositories/repomanager"
	"github.com/learninfinity/learninfinity/internal/server/repositories/skills"
)

// SkillService manages the offered/learning skill lists. Removal accepts
// either the stable skill ID or the legacy positional index; an index is
// resolved against one transactional snapshot so concurrent edits cannot
// shift it under the caller.
type SkillService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSkillService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SkillService {
	return &SkillService{db: db, repomanager: m}
}

// Add appends a skill at the tail of the given side's list and returns the
// refreshed user.
func (s *SkillService) Add(ctx context.Context, userID, side string, skill models.Skill) (*models.User, error) {
	skill.ID = uuid.NewString()

	if err := s.repomanager.Skills(s.db).Add(ctx, userID, side, skill); err != nil {
		return nil, err
	}

	return s.loadUser(ctx, userID)
}

// RemoveByID deletes the identified skill. common.ErrorNotFound when the ID
// does not belong to the user/side.
func (s *SkillService) RemoveByID(ctx context.Context, userID, side, skillID string) (*models.User, error) {
	if err := s.repomanager.Skills(s.db).Remove(ctx, userID, side, skillID); err != nil {
		return nil, err
	}

	return s.loadUser(ctx, userID)
}

// RemoveByIndex deletes the skill at the given position in the side's
// current ordering. Out-of-range indices return common.ErrorNotFound.
func (s *SkillService) RemoveByIndex(ctx context.Context, userID, side string, index int) (*models.User, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Skills(tx)

		list, err := repo.ListBySide(ctx, userID, side)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(list) {
			return common.ErrorNotFound
		}

		return repo.Remove(ctx, userID, side, list[index].ID)
	})
	if err != nil {
		return nil, err
	}

	return s.loadUser(ctx, userID)
}

func (s *SkillService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return attachSkills(ctx, s.repomanager.Skills(s.db), user)
}

// attachSkills fills both skill lists of the user projection. Shared by all
// services so every successful mutation response carries the full record.
func attachSkills(ctx context.Context, repo skills.Repository, user *models.User) (*models.User, error) {
	offered, err := repo.ListBySide(ctx, user.ID, common.SkillSideOffered)
	if err != nil {
		return nil, err
	}
	learning, err := repo.ListBySide(ctx, user.ID, common.SkillSideLearning)
	if err != nil {
		return nil, err
	}

	user.SkillsOffered = offered
	user.SkillsLearning = learning
	return user, nil
}
