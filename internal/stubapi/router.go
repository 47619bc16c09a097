package stubapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/schoolcal/internal/auth"
)

const (
	requestIDKey    = "request_id"
	userIDKey       = "user_id"
	requestIDMaxLen = 64
)

// NewRouter builds the stub schedule service over fx.
func NewRouter(fx *Fixtures, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fx == nil {
		fx = &Fixtures{}
	}
	h := &handler{fx: fx}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(logger))
	r.Use(identity())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/users/me/school", requireUser(), h.mySchool)

		schools := api.Group("/schools")
		{
			schools.GET("/code/:code", h.schoolByCode)
			schools.GET("/search", h.searchSchools)
			schools.GET("/:code/schedules", h.schoolSchedules)
		}

		regions := api.Group("/regions")
		{
			regions.GET("/schedules/average", h.averageSchedules)
			regions.GET("/:id", h.regionByID)
		}
	}
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}
		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// identity reads the user id from a bearer token without verifying it.
func identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if id, err := auth.Parse(parts[1], time.Now()); err == nil {
				c.Set(userIDKey, id.UserID)
			}
		}
		c.Next()
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userIDKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		c.Next()
	}
}

type handler struct {
	fx *Fixtures
}

func (h *handler) mySchool(c *gin.Context) {
	user, ok := h.fx.user(c.GetString(userIDKey))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"code": nil})
		return
	}
	var code string
	switch c.Query("type") {
	case "school":
		code = user.School
	case "region":
		code = user.Region
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "type must be school or region"})
		return
	}
	if code == "" {
		c.JSON(http.StatusOK, gin.H{"code": nil})
		return
	}
	// Region ids are numeric on the wire.
	if n, err := strconv.Atoi(code); err == nil && c.Query("type") == "region" {
		c.JSON(http.StatusOK, gin.H{"code": n})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

func (h *handler) schoolByCode(c *gin.Context) {
	school, ok := h.fx.schoolByCode(c.Param("code"))
	if !ok {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	c.JSON(http.StatusOK, []gin.H{{"name": school.Name, "atptCode": school.AtptCode}})
}

func (h *handler) searchSchools(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}
	out := []gin.H{}
	for _, s := range h.fx.schoolsByName(name) {
		out = append(out, gin.H{"schoolCode": s.Code, "atptCode": s.AtptCode, "name": s.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) schoolSchedules(c *gin.Context) {
	code := c.Param("code")
	school, ok := h.fx.schoolByCode(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "school not found"})
		return
	}
	if atpt := c.Query("atptCode"); atpt != "" && atpt != school.AtptCode {
		c.JSON(http.StatusNotFound, gin.H{"message": "school not found in education office"})
		return
	}
	year, grade, ok := yearGrade(c)
	if !ok {
		return
	}
	list := h.fx.filter(func(s Schedule) bool { return s.School == code }, year, grade)
	c.JSON(http.StatusOK, render(list))
}

func (h *handler) regionByID(c *gin.Context) {
	region, ok := h.fx.regionByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "region not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"region_name": region.Name}})
}

func (h *handler) averageSchedules(c *gin.Context) {
	name := strings.TrimSpace(c.Query("regionName"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "regionName is required"})
		return
	}
	year, grade, ok := yearGrade(c)
	if !ok {
		return
	}
	list := h.fx.filter(func(s Schedule) bool { return s.Region == name }, year, grade)
	c.JSON(http.StatusOK, gin.H{"data": render(list)})
}

func yearGrade(c *gin.Context) (int, int, bool) {
	year, err := optionalInt(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "year must be a number"})
		return 0, 0, false
	}
	grade, err := optionalInt(c.Query("grade"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "grade must be a number"})
		return 0, 0, false
	}
	return year, grade, true
}

func optionalInt(value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func render(list []Schedule) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, s := range list {
		item := gin.H{"date": s.Date, "event_name": s.EventName}
		if len(s.Grades) > 0 {
			item["grades"] = s.Grades
		}
		out = append(out, item)
	}
	return out
}
