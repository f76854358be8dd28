package httpapi

import (
	"github.com/gin-gonic/gin"

	"checkers/internal/app"
	"checkers/internal/ports"
	"checkers/internal/ws"
)

// NewRouter builds the full gin engine: matchmaking REST endpoints and the
// match websocket upgrade route.
func NewRouter(mm *app.Matchmaker, auth ports.AuthPort, session *ws.GameSession) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		matchmaking := v1.Group("/matchmaking")
		matchmaking.Use(RequireAuth(auth))
		matchmaking.POST("/find", HandleFindMatch(mm))
		matchmaking.POST("/:matchid/resign", HandleResign(mm))

		v1.GET("/ws/match/:matchid", HandleMatchWS(session))
	}

	return r
}
