package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LeoXLiu-DS/timesheet-logging/internal/tenant"
	tenantpostgres "github.com/LeoXLiu-DS/timesheet-logging/internal/tenant/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample tenants, users, projects and tasks for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"time_entries", "tasks", "projects", "users", "tenants"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		tenants := tenantpostgres.NewTenantRepository(db)

		acmeID := ensureTenant(tenants, "Acme Consulting", "acme.com")
		globexID := ensureTenant(tenants, "Globex Partners", "globex.com")

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUsers := []struct {
			TenantID int64
			Email    string
			Name     string
			Role     string
		}{
			{acmeID, "alice@acme.com", "Alice Carter", "CONTRACTOR"},
			{acmeID, "bob@acme.com", "Bob Nguyen", "CONTRACTOR"},
			{acmeID, "maria@acme.com", "Maria Lopez", "MANAGER"},
			{globexID, "dewi@globex.com", "Dewi Santoso", "CONTRACTOR"},
			{globexID, "hank@globex.com", "Hank Morales", "MANAGER"},
		}

		for _, u := range seedUsers {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (tenant_id, email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				u.TenantID, u.Email, u.Name, string(hash), u.Role,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		seedProjects := []struct {
			TenantID int64
			Name     string
			Code     string
			Tasks    []string
		}{
			{acmeID, "Website Redesign", "ACME-WEB", []string{"Design", "Frontend Build", "QA"}},
			{acmeID, "Mobile App", "ACME-APP", []string{"API Integration", "Release Prep"}},
			{globexID, "Data Warehouse", "GLX-DWH", []string{"Modeling", "ETL Pipelines"}},
		}

		for _, p := range seedProjects {
			var projectID int64
			if err := db.Raw("SELECT id FROM projects WHERE tenant_id = ? AND code = ?", p.TenantID, p.Code).Row().Scan(&projectID); err != nil {
				if err := db.Exec(
					"INSERT INTO projects (tenant_id, name, code, is_active, created_at) VALUES (?, ?, ?, true, now())",
					p.TenantID, p.Name, p.Code,
				).Error; err != nil {
					log.Fatalf("failed to insert project %s: %v", p.Code, err)
				}
				if err := db.Raw("SELECT id FROM projects WHERE tenant_id = ? AND code = ?", p.TenantID, p.Code).Row().Scan(&projectID); err != nil {
					log.Fatalf("project not found after insert %s: %v", p.Code, err)
				}
				fmt.Println("Seeded project:", p.Name)
			}

			for _, taskName := range p.Tasks {
				var exists int
				if err := db.Raw("SELECT 1 FROM tasks WHERE project_id = ? AND name = ?", projectID, taskName).Row().Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec(
					"INSERT INTO tasks (tenant_id, project_id, name, created_at) VALUES (?, ?, ?, now())",
					p.TenantID, projectID, taskName,
				).Error; err != nil {
					log.Fatalf("failed to insert task %s: %v", taskName, err)
				}
			}
		}

		fmt.Println("Seed data loaded successfully")
	},
}

func ensureTenant(repo *tenantpostgres.TenantRepository, name, domain string) int64 {
	existing, err := repo.GetByDomain(domain)
	if err != nil {
		log.Fatalf("failed to look up tenant %s: %v", domain, err)
	}
	if existing != nil {
		fmt.Printf("tenant %s already exists\n", domain)
		return existing.ID
	}

	t := &tenant.Tenant{Name: name, Domain: domain, IsActive: true}
	if err := repo.Create(t); err != nil {
		log.Fatalf("failed to insert tenant %s: %v", domain, err)
	}
	fmt.Println("Seeded tenant:", domain)
	return t.ID
}
