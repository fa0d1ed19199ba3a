package repository

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team and its membership rows in a transaction
func (r *GormTeamRepository) Create(team *models.Team, memberIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}
		return addMembers(tx, team.ID, memberIDs)
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id string) (*models.Team, error) {
	var team models.Team
	if err := r.withRelations(r.db).Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by name
func (r *GormTeamRepository) FindByName(name string) (*models.Team, error) {
	var team models.Team
	if err := r.withRelations(r.db).Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List lists all teams ordered by name
func (r *GormTeamRepository) List() ([]models.Team, error) {
	teams := []models.Team{}
	if err := r.withRelations(r.db).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update saves the team fields and replaces its members in a transaction
func (r *GormTeamRepository) Update(team *models.Team, memberIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(team).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return addMembers(tx, team.ID, memberIDs)
	})
}

// Delete deletes a team and its membership rows in a transaction
func (r *GormTeamRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Team{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountProjects counts the projects referencing a team
func (r *GormTeamRepository) CountProjects(teamID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// IsLeadOfAny reports whether the user leads at least one team
func (r *GormTeamRepository) IsLeadOfAny(userID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Team{}).Where("team_lead_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormTeamRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("TeamLead").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Members.User")
}

func addMembers(tx *gorm.DB, teamID string, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	members := make([]models.TeamMember, len(memberIDs))
	for i, userID := range memberIDs {
		members[i] = models.TeamMember{
			TeamID:   teamID,
			UserID:   userID,
			JoinedAt: now,
		}
	}
	return tx.Omit(clause.Associations).Create(&members).Error
}
