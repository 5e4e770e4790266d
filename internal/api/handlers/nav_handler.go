package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/guard"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

// NavHandler answers "where should the client go" for a reported
// bootstrap state and path. The decision logic lives in the guard
// package; this is just the wire adapter.
type NavHandler struct {
	loadingLimit time.Duration
}

func NewNavHandler(loadingLimit time.Duration) *NavHandler {
	if loadingLimit <= 0 {
		loadingLimit = guard.DefaultLoadingLimit
	}
	return &NavHandler{loadingLimit: loadingLimit}
}

type NavDecisionResponse struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// Decide is public: the sign-in page itself needs routing answers
// before any session exists.
func (h *NavHandler) Decide(c *gin.Context) {
	const op = "NavHandler.Decide"

	state, ok := guard.ParseState(c.Query("state"))
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "state must be loading, unauthenticated or authenticated", nil))
		return
	}

	path := c.Query("path")
	if path == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "path is required", nil))
		return
	}

	var loadingFor time.Duration
	if ms := c.Query("loading_ms"); ms != "" {
		n, err := strconv.ParseInt(ms, 10, 64)
		if err != nil || n < 0 {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "loading_ms must be a non-negative integer", err))
			return
		}
		loadingFor = time.Duration(n) * time.Millisecond
	}

	d := guard.DecideWithDeadline(state, path, loadingFor, h.loadingLimit)
	c.JSON(http.StatusOK, NavDecisionResponse{
		Action: d.Action.String(),
		Target: d.Target,
	})
}
