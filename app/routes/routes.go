package routes

import (
	"log/slog"
	"net/http"
	"time"

	"tareas-go/app/controllers"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController, logger *slog.Logger) {
	router.Use(requestLogger(logger))

	router.HandleFunc("/health", taskController.Health).Methods(http.MethodGet)
	router.HandleFunc("/tareas", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/tareas", taskController.CreateTask).Methods(http.MethodPost)
	// Registered ahead of the {numero_tarea} routes, which would otherwise match it.
	router.HandleFunc("/tareas/export", taskController.ExportTasks).Methods(http.MethodGet)
	router.HandleFunc("/tareas/{numero_tarea}", taskController.GetTaskByNumber).Methods(http.MethodGet)
	router.HandleFunc("/tareas/{numero_tarea}", taskController.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tareas/{numero_tarea}/desc", taskController.GetTaskDescriptionHTML).Methods(http.MethodGet)
}

// NewRouter returns a router with every route registered.
func NewRouter(taskController *controllers.TaskController, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	RegisterRoutes(router, taskController, logger)
	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags every request with an X-Request-ID, reusing the
// client's when present, and logs one line when it completes.
func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Info("request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
