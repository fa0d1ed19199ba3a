package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   interface{}
	name    string
	columns []string
}

// secondaryIndexes lists the lookup paths that are not covered by primary
// or unique keys.
var secondaryIndexes = []index{
	{&models.Team{}, "idx_teams_team_lead_id", []string{"team_lead_id"}},
	{&models.TeamMember{}, "idx_team_members_user_id", []string{"user_id"}},
	{&models.Project{}, "idx_projects_team_id", []string{"team_id"}},
	{&models.Task{}, "idx_tasks_project_id", []string{"project_id"}},
	{&models.Task{}, "idx_tasks_assigned_to_id", []string{"assigned_to_id"}},
	{&models.Task{}, "idx_tasks_status", []string{"status"}},
	{&models.Task{}, "idx_tasks_due_date", []string{"due_date"}},
	{&models.Comment{}, "idx_comments_task_id", []string{"task_id"}},
}

// AddIndexes creates missing secondary indexes. Existing ones are left alone.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range secondaryIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
