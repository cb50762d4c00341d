// Package api registers the HTTP routes of the service.
package api

import (
	"github.com/chapterworks/memberdesk/internal/http/api/handlers"
	"github.com/chapterworks/memberdesk/internal/ledger"
	"github.com/chapterworks/memberdesk/internal/membership"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes registers all API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, engine *membership.Engine, balancer *ledger.Balancer) {
	if r == nil || db == nil {
		return
	}

	v1 := r.Group("/api/v1")

	zoneHandler := handlers.NewZoneHandler(db)
	v1.POST("/zones", zoneHandler.Create)
	v1.GET("/zones", zoneHandler.List)
	v1.GET("/zones/:id", zoneHandler.Get)
	v1.PUT("/zones/:id", zoneHandler.Update)
	v1.DELETE("/zones/:id", zoneHandler.Delete)

	chapterHandler := handlers.NewChapterHandler(db)
	v1.POST("/chapters", chapterHandler.Create)
	v1.GET("/chapters", chapterHandler.List)
	v1.GET("/chapters/:chapterId", chapterHandler.Get)
	v1.PUT("/chapters/:chapterId", chapterHandler.Update)
	v1.GET("/chapters/:chapterId/balances", chapterHandler.Balances)

	transactionHandler := handlers.NewTransactionHandler(db, balancer)
	v1.POST("/chapters/:chapterId/transactions", transactionHandler.Create)
	v1.GET("/chapters/:chapterId/transactions", transactionHandler.ListByChapter)
	v1.PUT("/transactions/:id", transactionHandler.Update)
	v1.DELETE("/transactions/:id", transactionHandler.Delete)

	memberHandler := handlers.NewMemberHandler(db)
	v1.POST("/members", memberHandler.Create)
	v1.GET("/members", memberHandler.List)
	v1.GET("/members/:id", memberHandler.Get)
	v1.PUT("/members/:id", memberHandler.Update)
	v1.DELETE("/members/:id", memberHandler.Delete)

	packageHandler := handlers.NewPackageHandler(db)
	v1.POST("/packages", packageHandler.Create)
	v1.GET("/packages", packageHandler.List)
	v1.GET("/packages/:id", packageHandler.Get)
	v1.PUT("/packages/:id", packageHandler.Update)

	membershipHandler := handlers.NewMembershipHandler(db, engine)
	v1.POST("/memberships", membershipHandler.Create)
	v1.GET("/memberships", membershipHandler.List)
	v1.GET("/memberships/:id", membershipHandler.Get)
	v1.PUT("/memberships/:id", membershipHandler.Update)
	v1.DELETE("/memberships/:id", membershipHandler.Delete)
	v1.GET("/memberships/member/:memberId", membershipHandler.ListByMember)

	roleHandler := handlers.NewRoleHandler(db)
	v1.POST("/roles", roleHandler.Create)
	v1.GET("/roles", roleHandler.List)
	v1.GET("/roles/:id", roleHandler.Get)
	v1.PUT("/roles/:id", roleHandler.Update)
	v1.DELETE("/roles/:id", roleHandler.Delete)
	v1.GET("/roles/member/:memberId/chapters", roleHandler.AccessibleChapters)

	oneToOneHandler := handlers.NewOneToOneHandler(db)
	v1.POST("/one-to-ones", oneToOneHandler.Create)
	v1.GET("/one-to-ones", oneToOneHandler.List)
	v1.GET("/one-to-ones/:id", oneToOneHandler.Get)
	v1.PUT("/one-to-ones/:id", oneToOneHandler.Update)
	v1.DELETE("/one-to-ones/:id", oneToOneHandler.Delete)

	referralHandler := handlers.NewReferralHandler(db)
	v1.POST("/referrals", referralHandler.Create)
	v1.GET("/referrals", referralHandler.List)
	v1.GET("/referrals/:id", referralHandler.Get)
	v1.PUT("/referrals/:id", referralHandler.Update)
	v1.DELETE("/referrals/:id", referralHandler.Delete)

	visitorHandler := handlers.NewVisitorHandler(db)
	v1.POST("/visitors", visitorHandler.Create)
	v1.GET("/visitors", visitorHandler.List)
	v1.GET("/visitors/:id", visitorHandler.Get)
	v1.PUT("/visitors/:id", visitorHandler.Update)
	v1.DELETE("/visitors/:id", visitorHandler.Delete)

	trainingHandler := handlers.NewTrainingHandler(db)
	v1.POST("/trainings", trainingHandler.Create)
	v1.GET("/trainings", trainingHandler.List)
	v1.GET("/trainings/:id", trainingHandler.Get)
	v1.PUT("/trainings/:id", trainingHandler.Update)
	v1.POST("/trainings/:id/attendance", trainingHandler.RecordAttendance)
	v1.GET("/trainings/:id/attendance", trainingHandler.ListAttendance)
}
