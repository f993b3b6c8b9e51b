package cmd

import (
	"log"

	"github.com/fahrizalm/staffdesk/internal/account"
	accountpg "github.com/fahrizalm/staffdesk/internal/account/postgres"
	"github.com/fahrizalm/staffdesk/internal/audit"
	auditpg "github.com/fahrizalm/staffdesk/internal/audit/postgres"
	"github.com/fahrizalm/staffdesk/internal/credential"
	"github.com/fahrizalm/staffdesk/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the initial admin account",
	Long:  `Create the bootstrap admin account when no admin exists yet.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Logging.Format, cfg.Logging.Level)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGormDB(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		auditSvc := audit.NewService(auditpg.NewAuditRepository(gormDB), logger.L())
		hasher := credential.NewBcryptHasher(cfg.Security.BCryptCost)
		accountSvc := account.NewService(accountpg.NewAccountRepository(gormDB), hasher, auditSvc, logger.L())

		if err := accountSvc.SeedInitialAdmin(); err != nil {
			log.Fatalf("failed to seed initial admin: %v", err)
		}

		logger.L().Info("seed complete")
	},
}
