package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/eduplay/quizquest/internal/game"
	"github.com/eduplay/quizquest/internal/quiz"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "QuizQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the QuizQuest learning game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates a user account and returns a session token.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with name and secret. Returns a session token.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Invalidates the presented session token.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the authenticated user. Requires Bearer token.")
	getMe.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/dashboard
	getDashboard, _ := r.NewOperationContext(http.MethodGet, "/api/dashboard")
	getDashboard.SetSummary("Dashboard")
	getDashboard.SetDescription("Level map, badges, and totals for the authenticated user.")
	getDashboard.AddRespStructure(DashboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getDashboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getDashboard)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Top players by total score. Ties keep registration order.")
	getLeaderboard.AddRespStructure([]LeaderboardEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getLeaderboard)

	// POST /api/game/levels/{level}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/levels/{level}/start")
	postStart.SetSummary("Start a level")
	postStart.SetDescription("Samples questions for an unlocked level and opens an attempt.")
	postStart.AddReqStructure(struct {
		Level int `path:"level"`
	}{})
	postStart.AddRespStructure(StartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postStart)

	// POST /api/game/attempts/{attemptID}/complete
	postComplete, _ := r.NewOperationContext(http.MethodPost, "/api/game/attempts/{attemptID}/complete")
	postComplete.SetSummary("Complete a level")
	postComplete.SetDescription("Grades submitted answers against the attempt snapshot.")
	postComplete.AddReqStructure(struct {
		AttemptID string `path:"attemptID"`
	}{})
	postComplete.AddReqStructure(CompleteRequest{})
	postComplete.AddRespStructure(CompleteResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postComplete)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream for game updates. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/admin/questions
	listQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions")
	listQuestions.SetSummary("List questions")
	listQuestions.SetDescription("Full question bank including answer keys. Admin only.")
	listQuestions.AddRespStructure([]quiz.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	listQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(listQuestions)

	// POST /api/admin/questions
	createQuestion, _ := r.NewOperationContext(http.MethodPost, "/api/admin/questions")
	createQuestion.SetSummary("Create question")
	createQuestion.SetDescription("Adds one question to the bank. Admin only.")
	createQuestion.AddReqStructure(quiz.Question{})
	createQuestion.AddRespStructure(quiz.Question{}, openapi.WithHTTPStatus(http.StatusCreated))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createQuestion)

	// PUT /api/admin/questions/{id}
	updateQuestion, _ := r.NewOperationContext(http.MethodPut, "/api/admin/questions/{id}")
	updateQuestion.SetSummary("Update question")
	updateQuestion.SetDescription("Replaces a question. Unknown ids are a no-op; running attempts keep their snapshot. Admin only.")
	updateQuestion.AddReqStructure(struct {
		ID string `path:"id"`
	}{})
	updateQuestion.AddReqStructure(quiz.Question{})
	updateQuestion.AddRespStructure(quiz.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	updateQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(updateQuestion)

	// DELETE /api/admin/questions/{id}
	deleteQuestion, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/questions/{id}")
	deleteQuestion.SetSummary("Delete question")
	deleteQuestion.SetDescription("Removes a question. Unknown ids are a no-op. Admin only.")
	deleteQuestion.AddReqStructure(struct {
		ID string `path:"id"`
	}{})
	deleteQuestion.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(deleteQuestion)

	// DELETE /api/admin/questions
	clearQuestions, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/questions")
	clearQuestions.SetSummary("Clear question bank")
	clearQuestions.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(clearQuestions)

	// POST /api/admin/questions/import
	importQuestions, _ := r.NewOperationContext(http.MethodPost, "/api/admin/questions/import")
	importQuestions.SetSummary("Import questions")
	importQuestions.SetDescription("Multipart upload of a question file (xlsx, csv, docx, txt, json). Admin only.")
	importQuestions.AddRespStructure(ImportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	importQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(importQuestions)

	// GET /api/admin/questions/export
	exportQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/admin/questions/export")
	exportQuestions.SetSummary("Export playable HTML")
	exportQuestions.SetDescription("Downloads the question bank as a standalone playable HTML file. Admin only.")
	exportQuestions.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/html"))
	_ = r.AddOperation(exportQuestions)

	// GET /api/admin/config
	getConfig, _ := r.NewOperationContext(http.MethodGet, "/api/admin/config")
	getConfig.SetSummary("Get game configuration")
	getConfig.AddRespStructure(game.Config{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getConfig)

	// PUT /api/admin/config
	putConfig, _ := r.NewOperationContext(http.MethodPut, "/api/admin/config")
	putConfig.SetSummary("Update game configuration")
	putConfig.SetDescription("Changes level count, questions per level, or pass threshold. Admin only.")
	putConfig.AddReqStructure(game.Config{})
	putConfig.AddRespStructure(game.Config{}, openapi.WithHTTPStatus(http.StatusOK))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putConfig)

	// GET /api/admin/users
	listUsers, _ := r.NewOperationContext(http.MethodGet, "/api/admin/users")
	listUsers.SetSummary("List users")
	listUsers.AddRespStructure([]AdminUserItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listUsers)

	// DELETE /api/admin/users/{id}
	deleteUser, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/users/{id}")
	deleteUser.SetSummary("Delete user")
	deleteUser.AddReqStructure(struct {
		ID string `path:"id"`
	}{})
	deleteUser.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	deleteUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteUser)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
