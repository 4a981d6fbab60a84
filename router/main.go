package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/database"
	"github.com/sahilchouksey/go-institutions/handlers"
	admin_handlers "github.com/sahilchouksey/go-institutions/handlers/admin"
	department_handlers "github.com/sahilchouksey/go-institutions/handlers/department"
	funding_handlers "github.com/sahilchouksey/go-institutions/handlers/funding"
	fundingtype_handlers "github.com/sahilchouksey/go-institutions/handlers/fundingtype"
	institution_handlers "github.com/sahilchouksey/go-institutions/handlers/institution"
	leadershiptitle_handlers "github.com/sahilchouksey/go-institutions/handlers/leadershiptitle"
	program_handlers "github.com/sahilchouksey/go-institutions/handlers/program"
	user_handlers "github.com/sahilchouksey/go-institutions/handlers/user"
	workgroup_handlers "github.com/sahilchouksey/go-institutions/handlers/workgroup"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils"
	"github.com/sahilchouksey/go-institutions/utils/auth"
	"github.com/sahilchouksey/go-institutions/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage, jwtManager *auth.JWTManager) {
	db := store.GetDB()

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	admin := authMiddleware.RequireAdmin()
	audit := middleware.AdminAuditLog(db)

	institutionHandler := institution_handlers.NewInstitutionHandler(services.NewInstitutionService(db))
	departmentHandler := department_handlers.NewDepartmentHandler(services.NewDepartmentService(db))
	programHandler := program_handlers.NewProgramHandler(services.NewProgramService(db))
	leadershipTitleHandler := leadershiptitle_handlers.NewLeadershipTitleHandler(services.NewLeadershipTitleService(db))
	workgroupHandler := workgroup_handlers.NewWorkgroupHandler(services.NewWorkgroupService(db))
	fundingTypeHandler := fundingtype_handlers.NewFundingTypeHandler(services.NewFundingTypeService(db))
	fundingHandler := funding_handlers.NewFundingHandler(services.NewFundingService(db))
	userHandler := user_handlers.NewUserHandler(services.NewUserService(db))

	// Site views
	app.Get("/", institutionHandler.Index)
	app.Get("/:id<int>", institutionHandler.Detail)

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group: reads are public, writes need an admin token
	api := app.Group("/api/v1")

	institutions := api.Group("/institutions")
	institutions.Get("/", institutionHandler.ListInstitutions)
	institutions.Post("/", admin, audit, institutionHandler.CreateInstitution)
	institutions.Get("/order", institutionHandler.GetRootOrder)
	institutions.Put("/order", admin, audit, institutionHandler.SetRootOrder)
	institutions.Get("/:id<int>", institutionHandler.GetInstitution)
	institutions.Put("/:id<int>", admin, audit, institutionHandler.UpdateInstitution)
	institutions.Delete("/:id<int>", admin, audit, institutionHandler.DeleteInstitution)
	institutions.Get("/:id<int>/neighbors", institutionHandler.GetNeighbors)
	institutions.Get("/:id<int>/children", institutionHandler.ListChildren)
	institutions.Get("/:id<int>/children/order", institutionHandler.GetChildOrder)
	institutions.Put("/:id<int>/children/order", admin, audit, institutionHandler.SetChildOrder)
	institutions.Get("/:id<int>/departments/order", departmentHandler.GetOrder)
	institutions.Put("/:id<int>/departments/order", admin, audit, departmentHandler.SetOrder)
	institutions.Get("/:id<int>/programs/order", programHandler.GetOrder)
	institutions.Put("/:id<int>/programs/order", admin, audit, programHandler.SetOrder)

	departments := api.Group("/departments")
	departments.Get("/", departmentHandler.ListDepartments)
	departments.Get("/:id<int>", departmentHandler.GetDepartment)
	departments.Post("/", admin, audit, departmentHandler.CreateDepartment)
	departments.Put("/:id<int>", admin, audit, departmentHandler.UpdateDepartment)
	departments.Delete("/:id<int>", admin, audit, departmentHandler.DeleteDepartment)

	programs := api.Group("/programs")
	programs.Get("/", programHandler.ListPrograms)
	programs.Get("/:id<int>", programHandler.GetProgram)
	programs.Post("/", admin, audit, programHandler.CreateProgram)
	programs.Put("/:id<int>", admin, audit, programHandler.UpdateProgram)
	programs.Delete("/:id<int>", admin, audit, programHandler.DeleteProgram)

	titles := api.Group("/leadership-titles")
	titles.Get("/", leadershipTitleHandler.ListLeadershipTitles)
	titles.Get("/:id<int>", leadershipTitleHandler.GetLeadershipTitle)
	titles.Post("/", admin, audit, leadershipTitleHandler.CreateLeadershipTitle)
	titles.Put("/:id<int>", admin, audit, leadershipTitleHandler.UpdateLeadershipTitle)
	titles.Delete("/:id<int>", admin, audit, leadershipTitleHandler.DeleteLeadershipTitle)

	workgroups := api.Group("/workgroups")
	workgroups.Get("/", workgroupHandler.ListWorkgroups)
	workgroups.Get("/:id<int>", workgroupHandler.GetWorkgroup)
	workgroups.Post("/", admin, audit, workgroupHandler.CreateWorkgroup)
	workgroups.Put("/:id<int>", admin, audit, workgroupHandler.UpdateWorkgroup)
	workgroups.Delete("/:id<int>", admin, audit, workgroupHandler.DeleteWorkgroup)

	fundingTypes := api.Group("/funding-types")
	fundingTypes.Get("/", fundingTypeHandler.ListFundingTypes)
	fundingTypes.Get("/:id<int>", fundingTypeHandler.GetFundingType)
	fundingTypes.Post("/", admin, audit, fundingTypeHandler.CreateFundingType)
	fundingTypes.Put("/:id<int>", admin, audit, fundingTypeHandler.UpdateFundingType)
	fundingTypes.Delete("/:id<int>", admin, audit, fundingTypeHandler.DeleteFundingType)

	fundings := api.Group("/fundings")
	fundings.Get("/", fundingHandler.ListFundings)
	fundings.Get("/expiring", fundingHandler.ListExpiring)
	fundings.Get("/:id<int>", fundingHandler.GetFunding)
	fundings.Post("/", admin, audit, fundingHandler.CreateFunding)
	fundings.Put("/:id<int>", admin, audit, fundingHandler.UpdateFunding)
	fundings.Delete("/:id<int>", admin, audit, fundingHandler.DeleteFunding)

	// Admin audit trail
	auditLogs := api.Group("/audit-logs", admin)
	auditLogs.Get("/", utils.MakeHTTPHandleFunc(admin_handlers.ListAuditLogs, store))
	auditLogs.Get("/:id<int>", utils.MakeHTTPHandleFunc(admin_handlers.GetAuditLog, store))

	users := api.Group("/users")
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id<int>", userHandler.GetUser)
	users.Post("/", admin, audit, userHandler.CreateUser)
	users.Put("/:id<int>", admin, audit, userHandler.UpdateUser)
	users.Delete("/:id<int>", admin, audit, userHandler.DeleteUser)
}
