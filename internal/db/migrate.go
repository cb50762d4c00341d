package db

import (
	"fmt"

	"github.com/chapterworks/memberdesk/internal/models"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date for every model the API persists.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.Zone{},
		&models.Chapter{},
		&models.User{},
		&models.Member{},
		&models.Package{},
		&models.Membership{},
		&models.Transaction{},
		&models.RoleAssignment{},
		&models.OneToOne{},
		&models.Referral{},
		&models.Visitor{},
		&models.Training{},
		&models.TrainingAttendance{},
	)
}
