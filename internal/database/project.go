package database

import (
	"github.com/marina-keet/MiaTech-sub000/internal/models"
)

func (d *Database) CreateProject(project *models.Project) error {
	return d.db.Create(project).Error
}

func (d *Database) GetProject(id string) (*models.Project, error) {
	var project models.Project
	if err := d.db.Preload("Team").First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (d *Database) AddTeamMember(projectID, userID string) error {
	var project models.Project
	var user models.User

	if err := d.db.First(&project, "id = ?", projectID).Error; err != nil {
		return err
	}

	if err := d.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return d.db.Model(&project).Association("Team").Append(&user)
}

// IsProjectParticipant проверяет, является ли пользователь
// клиентом-владельцем проекта или назначенным членом команды
func (d *Database) IsProjectParticipant(userID, projectID string) (bool, error) {
	var count int64

	err := d.db.Model(&models.Project{}).
		Where("id = ? AND client_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = d.db.Table("project_members").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
