package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/PC-931/task-manager/modules/api"
	authmod "github.com/PC-931/task-manager/modules/auth"
	cachemod "github.com/PC-931/task-manager/modules/cache"
	taskmod "github.com/PC-931/task-manager/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	dbPath := getEnv("TASKS_DB_PATH", "tasks.db")
	httpPort := getEnvInt("HTTP_PORT", 5000)
	redisAddr := os.Getenv("REDIS_ADDR") // empty disables caching
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)

	log.Println("=== Task Manager API ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)
	if redisAddr != "" {
		log.Printf("Redis: %s (TTL: %s)", redisAddr, cacheTTL)
	} else {
		log.Println("Redis: disabled")
	}

	authModule := authmod.NewModule()
	taskModule := taskmod.NewModule(dbPath)
	apiModule := apimod.NewModule(httpPort)

	var cacheModule *cachemod.Module
	if redisAddr != "" {
		cacheModule = cachemod.NewModule(redisAddr, "tasks:", cacheTTL)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Independent modules first, then dependents.
	app.Register(authModule)
	app.Register(taskModule)
	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	if cacheModule != nil {
		taskModule.SetCache(cacheModule.GetCache())
	}

	printStartupInfo(httpPort)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Printf("API available at http://localhost:%d", port)
	log.Println("")
	log.Println("  Public endpoints:")
	log.Println("  POST   /api/auth/register         - Register a new user")
	log.Println("  POST   /api/auth/login            - Login and get tokens")
	log.Println("  POST   /api/auth/refresh          - Refresh access token")
	log.Println("  GET    /health                    - Health check")
	log.Println("")
	log.Println("  Protected endpoints (require token):")
	log.Println("  GET    /api/auth/me               - Current user profile")
	log.Println("  GET    /api/tasks                 - List tasks")
	log.Println("  POST   /api/tasks                 - Create task")
	log.Println("  GET    /api/tasks/stats           - Task statistics")
	log.Println("  GET    /api/tasks/filter/search   - Filtered search")
	log.Println("  GET    /api/tasks/:id             - Get task")
	log.Println("  PUT    /api/tasks/:id             - Update task")
	log.Println("  DELETE /api/tasks/:id             - Delete task")
	log.Println("  PUT    /api/tasks/:id/status      - Toggle status")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns an environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns an environment variable as duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
