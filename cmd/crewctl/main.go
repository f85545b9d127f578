package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/config"
	"github.com/crewbase/crewbase/internal/model"
)

var (
	dbConnString string

	superAdminName     string
	superAdminEmail    string
	superAdminPassword string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbConnString, "db", "d", "", "Database connection string (defaults to DB_* environment variables)")

	createSuperAdminCmd.Flags().StringVar(&superAdminName, "name", "Super Admin", "Display name")
	createSuperAdminCmd.Flags().StringVar(&superAdminEmail, "email", "", "Login email (required)")
	createSuperAdminCmd.Flags().StringVar(&superAdminPassword, "password", "", "Password (required)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createSuperAdminCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "crewctl",
	Short: "crewctl administers a crewbase deployment",
	Long:  `crewctl runs schema migrations and provisions the initial super admin account.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		db := openDatabase()

		// citext backs case-insensitive email uniqueness
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS citext").Error; err != nil {
			log.Fatalf("Failed to create citext extension: %v", err)
		}
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
			log.Fatalf("Failed to create pgcrypto extension: %v", err)
		}

		if err := db.AutoMigrate(
			&model.User{},
			&model.Company{},
			&model.Plan{},
			&model.Project{},
		); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}

		fmt.Println("Schema migrated successfully")
	},
}

var createSuperAdminCmd = &cobra.Command{
	Use:   "create-superadmin",
	Short: "Provision a super admin account",
	Long:  `Create a platform-level super admin. Super admins are never attached to a company and bypass subscription checks.`,
	Run: func(cmd *cobra.Command, args []string) {
		if superAdminEmail == "" || superAdminPassword == "" {
			log.Fatal("Both --email and --password are required")
		}

		db := openDatabase()
		email := strings.ToLower(strings.TrimSpace(superAdminEmail))

		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check existing users: %v", err)
		}
		if count > 0 {
			log.Fatalf("A user with email %s already exists", email)
		}

		hash, err := auth.NewPasswordHasher().Hash(superAdminPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user := model.User{
			Name:         superAdminName,
			Email:        email,
			PasswordHash: hash,
			Role:         model.RoleSuperAdmin,
			IsRegistered: true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create super admin: %v", err)
		}

		fmt.Printf("Super admin %s created (%s)\n", email, user.ID)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("crewctl v1.0.0")
	},
}

func openDatabase() *gorm.DB {
	dsn := dbConnString
	if dsn == "" {
		cfg := config.Load()
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.SSLMode,
			cfg.Database.SearchPath,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
	}
}
