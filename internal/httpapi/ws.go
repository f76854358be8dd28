package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"checkers/internal/logging"
	"checkers/internal/ws"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleMatchWS upgrades the request to a websocket and hands it to the
// game session. Authentication happens inside GameSession.Handle, from the
// same access_token cookie the REST surface uses, so the upgrade itself
// never checks auth.
func HandleMatchWS(session *ws.GameSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID := c.Param("matchid")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.L().Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		var token string
		if cookie, err := c.Request.Cookie("access_token"); err == nil {
			token = cookie.Value
		}

		session.Handle(c.Request.Context(), conn, matchID, token)
	}
}
