package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/realtime"
	"github.com/mindboosthq/mindboost-api/server/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleGetNotifications returns the stored notifications of a user,
// newest first. Users can only read their own list unless they are an
// admin.
func (s *Server) handleGetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
		if err != nil {
			response.JSON(c, "invalid user id", http.StatusBadRequest, nil, apiError.ErrBadRequest)
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}
		user, _ := c.Get("user")
		u, isUser := user.(*models.User)
		if userID != uint(targetID) && (!isUser || !u.AdminStatus) {
			respondAndAbort(c, "", http.StatusForbidden, nil, apiError.New("cannot read another user's notifications", http.StatusForbidden))
			return
		}

		notifications, err := s.NotificationService.GetNotifications(uint(targetID))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		if notifications == nil {
			notifications = []models.Notification{}
		}

		c.JSON(http.StatusOK, models.NotificationListResponse{
			Success:       true,
			Notifications: notifications,
		})
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		notificationID, err := strconv.ParseUint(c.Param("notificationID"), 10, 32)
		if err != nil {
			response.JSON(c, "invalid notification id", http.StatusBadRequest, nil, apiError.ErrBadRequest)
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		if err := s.NotificationService.MarkAsRead(uint(notificationID), userID); err != nil {
			response.JSON(c, "", http.StatusNotFound, nil, apiError.ErrNotFound)
			return
		}
		response.JSON(c, "notification marked read", http.StatusOK, nil, nil)
	}
}

// handleNotificationSocket upgrades the request to a websocket and
// registers the connection for push delivery. A connection that fails
// the handshake is never registered. The read loop exists only to
// detect the peer going away; when it returns the connection is
// unregistered and closed exactly once.
func (s *Server) handleNotificationSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawUserID := c.Query("userId")
		userID64, err := strconv.ParseUint(rawUserID, 10, 32)
		if err != nil || rawUserID == "" {
			response.JSON(c, "missing or invalid userId", http.StatusBadRequest, nil, apiError.ErrBadRequest)
			return
		}
		userID := uint(userID64)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the handshake error
			log.Printf("websocket upgrade failed for user %d: %v", userID, err)
			return
		}

		client := realtime.NewClient(userID, conn)
		s.Hub.Register(userID, client)

		defer func() {
			s.Hub.Unregister(userID, client)
			client.Close()
		}()

		// Read pump. Inbound frames are discarded; an error means the
		// peer closed or the connection died.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
