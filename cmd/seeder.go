package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	schoolmodel "github.com/frahmantamala/school-payments/internal/core/datamodel/school"
	usermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/user"
	"github.com/frahmantamala/school-payments/pkg/logger"
)

var seedClear bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed development data",
	Long:  "Inserts a demo school and an admin dashboard user. Intended for local development only.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(cfg)
		log := logger.LoggerWrapper()

		sqlDB, gormDB, err := initDB(cfg)
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		defer sqlDB.Close()

		if seedClear {
			log.Info("clearing seeded tables")
			for _, table := range []string{"order_statuses", "orders", "schools", "users"} {
				if err := gormDB.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), cfg.Security.BCryptCost)
		if err != nil {
			return err
		}

		admin := &usermodel.User{
			Name:         "Admin",
			Email:        "admin@school-payments.local",
			PasswordHash: string(hash),
		}
		if err := gormDB.Where(usermodel.User{Email: admin.Email}).FirstOrCreate(admin).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}

		demo := &schoolmodel.School{
			Name:  "Greenfield Public School",
			Email: "accounts@greenfield.edu",
		}
		if err := gormDB.Where(schoolmodel.School{Email: demo.Email}).FirstOrCreate(demo).Error; err != nil {
			return fmt.Errorf("seed school: %w", err)
		}

		log.Info("seed complete", "admin_id", admin.ID, "school_id", demo.ID)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "delete existing rows before seeding")
}
