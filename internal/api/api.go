package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tcw-alerts/internal/alert"
	"tcw-alerts/internal/store"
)

// Server is the alert management surface: list, create and bulk-overwrite.
// It writes to the same store the matching engine reads from; the store's
// per-call atomicity is the only synchronization between them.
type Server struct {
	store store.Store
}

// NewServer creates the management API over the given store.
func NewServer(s store.Store) *Server {
	return &Server{store: s}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/alerts", s.listAlerts)
	r.POST("/alerts", s.createAlert)
	r.POST("/alerts-overwrite", s.overwriteAlerts)

	return r
}

// Run serves the management API on the given port.
func (s *Server) Run(port int) error {
	log.Infof("🚀 Alert API running on :%d", port)
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

func (s *Server) listAlerts(c *gin.Context) {
	alerts, err := s.store.ListAll()
	if err != nil {
		log.Errorf("❌ Failed to list alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load alerts"})
		return
	}
	if alerts == nil {
		alerts = []alert.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

type createAlertRequest struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	EntryPrice float64 `json:"entryPrice"`
	Tag        string  `json:"tag"`
	Message    string  `json:"message"` // legacy alias for tag
	SignalTime string  `json:"signalTime"`
}

func (s *Server) createAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	tag := req.Tag
	if tag == "" {
		tag = req.Message
	}

	a := alert.Alert{
		Symbol:     req.Symbol,
		Side:       req.Side,
		EntryPrice: req.EntryPrice,
		Tag:        tag,
		SignalTime: req.SignalTime,
	}
	a.Normalize()
	if err := a.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	// The id is always assigned server side, even if the UI sent one.
	a.AssignID()

	if err := s.store.Insert(a); err != nil {
		log.Errorf("❌ Failed to insert alert: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save alert"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": a.ID})
}

func (s *Server) overwriteAlerts(c *gin.Context) {
	var alerts []alert.Alert
	if err := c.ShouldBindJSON(&alerts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	// Validate the whole payload before touching the store, so a bad
	// record never results in a partial overwrite.
	for i := range alerts {
		alerts[i].Normalize()
		if err := alerts[i].Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
			return
		}
		if alerts[i].ID == "" {
			alerts[i].AssignID()
		}
	}

	if err := s.store.ReplaceAll(alerts); err != nil {
		log.Errorf("❌ Failed to overwrite alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
