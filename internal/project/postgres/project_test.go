package postgres_test

import (
	"io"
	"log/slog"
	"testing"

	projectDatamodel "github.com/LeoXLiu-DS/timesheet-logging/internal/core/datamodel/project"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/project"
	projectPostgres "github.com/LeoXLiu-DS/timesheet-logging/internal/project/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestProjectPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Postgres Suite")
}

var _ = Describe("Project PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo project.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&projectDatamodel.Project{}, &projectDatamodel.Task{})
		Expect(err).NotTo(HaveOccurred())

		repo = projectPostgres.NewProjectRepository(db)
	})

	seedProject := func(tenantID int64, name, code string, active bool) *projectDatamodel.Project {
		p := &projectDatamodel.Project{
			TenantID: tenantID,
			Name:     name,
			Code:     code,
			IsActive: active,
		}
		Expect(repo.CreateProject(p)).To(Succeed())
		return p
	}

	seedTask := func(tenantID, projectID int64, name string) *projectDatamodel.Task {
		t := &projectDatamodel.Task{
			TenantID:  tenantID,
			ProjectID: projectID,
			Name:      name,
		}
		Expect(repo.CreateTask(t)).To(Succeed())
		return t
	}

	Describe("GetAllByTenant", func() {
		It("should scope projects to the tenant, sorted by name", func() {
			seedProject(1, "Website Redesign", "ACME-WEB", true)
			seedProject(1, "Mobile App", "ACME-APP", true)
			seedProject(2, "Data Warehouse", "GLX-DWH", true)

			projects, err := repo.GetAllByTenant(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(2))
			Expect(projects[0].Name).To(Equal("Mobile App"))
			Expect(projects[1].Name).To(Equal("Website Redesign"))
		})
	})

	Describe("GetProjectByID", func() {
		It("should return nil across tenant boundaries", func() {
			p := seedProject(1, "Website Redesign", "ACME-WEB", true)

			found, err := repo.GetProjectByID(2, p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("catalog service on top of the repository", func() {
		var service *project.Service

		BeforeEach(func() {
			service = project.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		})

		It("should nest tasks under their projects and skip inactive projects", func() {
			web := seedProject(1, "Website Redesign", "ACME-WEB", true)
			seedProject(1, "Old Intranet", "ACME-OLD", false)
			seedTask(1, web.ID, "Design")
			seedTask(1, web.ID, "QA")

			catalog, err := service.GetCatalog(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(catalog).To(HaveLen(1))
			Expect(catalog[0].Name).To(Equal("Website Redesign"))
			Expect(catalog[0].Tasks).To(HaveLen(2))
		})

		It("should give projects without tasks an empty task list", func() {
			seedProject(1, "Website Redesign", "ACME-WEB", true)

			catalog, err := service.GetCatalog(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(catalog[0].Tasks).NotTo(BeNil())
			Expect(catalog[0].Tasks).To(BeEmpty())
		})

		It("should resolve snapshot names and flag unknown ids", func() {
			web := seedProject(1, "Website Redesign", "ACME-WEB", true)
			task := seedTask(1, web.ID, "Design")

			name, err := service.ProjectName(1, web.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("Website Redesign"))

			taskName, err := service.TaskName(1, task.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(taskName).To(Equal("Design"))

			_, err = service.ProjectName(1, 999)
			Expect(err).To(HaveOccurred())
		})

		It("should list one project's tasks and refuse foreign or missing projects", func() {
			web := seedProject(1, "Website Redesign", "ACME-WEB", true)
			app := seedProject(1, "Mobile App", "ACME-APP", true)
			seedTask(1, web.ID, "Design")
			seedTask(1, web.ID, "QA")
			seedTask(1, app.ID, "Release Prep")

			tasks, err := service.ProjectTasks(1, web.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(2))
			Expect(tasks[0].Name).To(Equal("Design"))

			_, err = service.ProjectTasks(2, web.ID)
			Expect(err).To(HaveOccurred())

			_, err = service.ProjectTasks(1, 999)
			Expect(err).To(HaveOccurred())
		})
	})
})
