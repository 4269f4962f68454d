package mockserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/cloudcast/internal/client"
	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
)

// Server serves a Station over HTTP.
type Server struct {
	station *Station
	router  *gin.Engine
}

// NewServer builds the router for station.
func NewServer(station *Station, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		station: station,
		router:  gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}

	s.router.Use(gin.Recovery(), requestLogger(), cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": constants.AppName + "-mock"})
	})

	s.router.GET(client.RouteStatus, s.status)
	s.router.GET(client.RouteEnableInput, s.enableInput)
	s.router.POST(client.RouteScheduleDates, s.scheduleDates)
	s.router.POST(client.RouteScheduleSave, s.saveSchedule)
	s.router.POST(client.RouteScheduleDeactivate, s.deactivateSchedules)
	s.router.GET(client.RouteScheduleGenerate, s.generateSchedules)
	s.router.GET(client.RouteFileSearch, s.searchFiles)
	s.router.GET(client.RouteFileSetPost, s.setPost)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.station.Status())
}

func (s *Server) enableInput(c *gin.Context) {
	enabled, err := strconv.ParseBool(c.Query("enabled"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid enabled flag")
		return
	}
	if !s.station.EnableInput(constants.InputLine(c.Query("input")), enabled) {
		c.String(http.StatusBadRequest, "unknown input")
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) scheduleDates(c *gin.Context) {
	c.JSON(http.StatusOK, s.station.Dates())
}

func (s *Server) saveSchedule(c *gin.Context) {
	id, err := strconv.ParseInt(c.PostForm("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid schedule id")
		return
	}
	fileIDs, err := parseIDs(c.PostFormArray("file_ids[]"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid file id")
		return
	}

	result, err := s.station.Save(id, fileIDs)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.String(http.StatusOK, string(result))
}

func (s *Server) deactivateSchedules(c *gin.Context) {
	ids, err := parseIDs(c.PostFormArray("ids[]"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid schedule id")
		return
	}
	s.station.Deactivate(ids)
	c.String(http.StatusOK, "OK")
}

func (s *Server) generateSchedules(c *gin.Context) {
	s.station.Generate()
	c.String(http.StatusOK, "OK")
}

func (s *Server) searchFiles(c *gin.Context) {
	restrict, _ := strconv.ParseBool(c.DefaultQuery("restrict", "false"))
	randomize, _ := strconv.ParseBool(c.DefaultQuery("randomize", "false"))
	c.JSON(http.StatusOK, s.station.Search(c.Query("query"), restrict, randomize))
}

func (s *Server) setPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid file id")
		return
	}
	if err := s.station.SetPost(id, c.Query("post")); err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}
	c.String(http.StatusOK, "OK")
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// requestLogger logs each request at debug level through the application logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Mock station request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Run serves station on addr until ctx is cancelled. When advanceEvery is
// positive the engine simulator advances the on-air schedule at that interval.
func Run(ctx context.Context, station *Station, addr string, advanceEvery time.Duration, debug bool) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(station, debug).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Mock station listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var tick <-chan time.Time
	if advanceEvery > 0 {
		ticker := time.NewTicker(advanceEvery)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err, ok := <-errCh:
			if ok {
				return err
			}
			return nil
		case <-tick:
			station.Advance()
			logger.Debug("Engine advanced")
		}
	}
}
