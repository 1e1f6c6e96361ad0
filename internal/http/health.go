package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkdepot/internal/database"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Shelves int64             `json:"shelves"`
	Links   int64             `json:"links"`
}

// HealthController reports whether the database answers and how many
// shelves and links it holds.
type HealthController struct {
	db      *database.Database
	shelves Counter
	links   Counter
	version string
}

// NewHealthController creates the controller. The counters are optional.
func NewHealthController(db *database.Database, shelves, links Counter, version string) *HealthController {
	return &HealthController{
		db:      db,
		shelves: shelves,
		links:   links,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{},
	}

	if h.checkDatabase(&resp) {
		resp.Shelves = h.count(&resp, "shelves", h.shelves)
		resp.Links = h.count(&resp, "links", h.links)
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// checkDatabase pings the connection. Counting is skipped when there is
// no database or it does not answer.
func (h *HealthController) checkDatabase(resp *HealthResponse) bool {
	if h.db == nil {
		resp.Checks["database"] = "not configured"
		return false
	}
	sqlDB, err := h.db.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		resp.Checks["database"] = "error: " + err.Error()
		resp.Status = "unhealthy"
		return false
	}
	resp.Checks["database"] = "ok"
	return true
}

func (h *HealthController) count(resp *HealthResponse, name string, store Counter) int64 {
	if store == nil {
		return 0
	}
	n, err := store.Count()
	if err != nil {
		resp.Checks[name] = "error: " + err.Error()
		resp.Status = "unhealthy"
		return 0
	}
	resp.Checks[name] = "ok"
	return n
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
