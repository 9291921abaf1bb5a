package handler

import (
	"net/http"

	"keymarket/internal/apierror"
	"keymarket/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// JobsHandler exposes the dead-letter queue to operators.
type JobsHandler struct{ rdb *redis.Client }

func NewJobsHandler(rdb *redis.Client) *JobsHandler { return &JobsHandler{rdb: rdb} }

func (h *JobsHandler) DeadCount(c *gin.Context) {
	count, err := worker.CountDead(c.Request.Context(), h.rdb)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to read dead-letter queue"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"dead": count})
}

// RequeueDead pushes every parked job back on its queue; operators call it
// after the underlying failure (SMTP outage, redis hiccup) is resolved.
func (h *JobsHandler) RequeueDead(c *gin.Context) {
	requeued, err := worker.RequeueDead(c.Request.Context(), h.rdb)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to requeue dead jobs"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"requeued": requeued})
}
