// Package httpapi mounts the REST matchmaking surface and the websocket
// upgrade route on a gin engine.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"checkers/internal/app"
	"checkers/internal/ports"
)

// MatchResponse is the REST rendering of a match record.
type MatchResponse struct {
	MatchID    string     `json:"matchid"`
	WhiteUser  string     `json:"white_user"`
	BlackUser  string     `json:"black_user"`
	Status     string     `json:"status"`
	Result     string     `json:"result"`
	Reason     string     `json:"reason"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func renderMatch(m ports.Match) MatchResponse {
	return MatchResponse{
		MatchID: m.MatchID, WhiteUser: m.WhiteUser, BlackUser: m.BlackUser,
		Status: string(m.Status), Result: string(m.Result), Reason: string(m.Reason),
		StartedAt: m.StartedAt, FinishedAt: m.FinishedAt,
	}
}

// FindMatchResponse is the body of POST /matchmaking/find.
type FindMatchResponse struct {
	Match   MatchResponse `json:"match"`
	Role    string        `json:"role"`
	Waiting bool          `json:"waiting"`
}

// HandleFindMatch seats the authenticated user via the matchmaker's
// find-or-create decision tree.
func HandleFindMatch(mm *app.Matchmaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		found, err := mm.FindOrCreate(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, FindMatchResponse{
			Match:   renderMatch(found.Match),
			Role:    string(found.Role),
			Waiting: found.Waiting,
		})
	}
}

// HandleResign resigns the authenticated user from matchid, if they are a
// participant in an ongoing match.
func HandleResign(mm *app.Matchmaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		matchID := c.Param("matchid")

		updated, err := mm.Resign(c.Request.Context(), matchID, userID)
		switch err {
		case nil:
			c.JSON(http.StatusOK, renderMatch(updated))
		case app.ErrNotOwner:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case app.ErrNotPlaying:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}
