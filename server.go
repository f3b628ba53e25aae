package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/tallyworks/counts_backend/config"
	"bitbucket.org/tallyworks/counts_backend/middlewares"
	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/models/accuracy"
	"bitbucket.org/tallyworks/counts_backend/models/reports"
	"bitbucket.org/tallyworks/counts_backend/utils"
	"github.com/bsm/redislock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultPort = "8080"

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		db := config.GetDB()
		var op models.Operator
		if err := db.WithContext(c.Request.Context()).
			Where("username = ? AND is_active = true", req.Username).
			Take(&op).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := utils.ComparePassword(op.Password, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := utils.JwtGenerate(op.Id, op.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "name": op.Name})
	}
}

// hourEntry is one operator-entered hours row for a load.
type hourEntry struct {
	EmployeeId string          `json:"employee_id" validate:"required"`
	Hours      decimal.Decimal `json:"hours"`
}

type loadRequest struct {
	CountDate string      `json:"count_date" validate:"required,datetime=2006-01-02"`
	Hours     []hourEntry `json:"hours" validate:"dive"`
	// DryRun computes the record set without merging the season ledger.
	DryRun bool `json:"dry_run"`
}

func loadStoreHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeId := strings.TrimSpace(c.Param("storeId"))
		if storeId == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "store id is required"})
			return
		}

		var req loadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidateStruct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		countDate, err := time.Parse("2006-01-02", req.CountDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count_date must be YYYY-MM-DD"})
			return
		}

		hours := make(map[string]decimal.Decimal, len(req.Hours))
		for _, h := range req.Hours {
			hours[h.EmployeeId] = h.Hours
		}

		ctx := c.Request.Context()

		// Per-store lock: one operator at a time per store preserves the
		// read-modify-write idempotence of the season merge. Best-effort:
		// the merge transaction is the real safety net.
		var lock *redislock.Lock
		if locker := config.GetRedisLock(); locker != nil {
			lock, err = locker.Obtain(ctx, "lock:load:"+storeId, 2*time.Minute, nil)
			if err == redislock.ErrNotObtained {
				c.JSON(http.StatusConflict, gin.H{"error": "another load is running for this store"})
				return
			} else if err != nil {
				logger.WithFields(logrus.Fields{
					"module":   "server",
					"store_id": storeId,
				}).Warn("error obtaining redis lock; proceeding without lock: " + err.Error())
				lock = nil
			}
		}
		if lock != nil {
			defer func() {
				if releaseErr := lock.Release(ctx); releaseErr != nil && releaseErr != redislock.ErrLockNotHeld {
					logger.Warn("failed to release load lock: " + releaseErr.Error())
				}
			}()
		}

		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		operatorId, _ := utils.GetOperatorIdFromContext(ctx)
		operatorName, _ := utils.GetOperatorNameFromContext(ctx)
		load := &models.CountLoad{
			StoreId:       storeId,
			CorrelationId: cid,
			OperatorId:    operatorId,
			OperatorName:  operatorName,
			Status:        models.LoadStatusRunning,
			StartedAt:     time.Now().UTC(),
		}
		db := config.GetDB()
		if err := db.WithContext(ctx).Create(load).Error; err != nil {
			config.LogError(logger, "server.go", "loadStoreHandler", "create count_loads row", storeId, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record load"})
			return
		}

		engine := accuracy.NewEngine(models.NewRawSource(db, storeId), models.NewAggregateStore(db), logger)
		opts := accuracy.LoadOptions{CountDate: countDate, Hours: hours}

		var result *accuracy.LoadResult
		if req.DryRun {
			result, err = engine.ComputeStore(ctx, storeId, opts)
		} else {
			result, err = engine.LoadStore(ctx, storeId, opts)
		}

		status := models.LoadStatusMerged
		if req.DryRun {
			status = models.LoadStatusComputed
		}
		message := ""
		if err != nil {
			status = models.LoadStatusFailed
			message = err.Error()
		}
		finishLoad(ctx, db, load, status, message)

		if err != nil {
			config.LogError(logger, "server.go", "loadStoreHandler", "load store", storeId, err)
			c.JSON(statusForLoadError(err), gin.H{"error": err.Error(), "kind": models.ErrorKindOf(err)})
			return
		}

		if !req.DryRun {
			reports.InvalidateSeasonCache()
		}
		c.JSON(http.StatusOK, result)
	}
}

func finishLoad(ctx context.Context, db *gorm.DB, load *models.CountLoad, status models.LoadStatus, message string) {
	now := time.Now().UTC()
	load.Status = status
	load.Message = message
	load.FinishedAt = &now
	if err := db.WithContext(ctx).Save(load).Error; err != nil {
		config.LogError(config.GetLogger(), "server.go", "finishLoad", "update count_loads row", load.StoreId, err)
	}
}

func statusForLoadError(err error) int {
	switch models.ErrorKindOf(err) {
	case models.ErrKindShape, models.ErrKindIntegrity:
		return http.StatusUnprocessableEntity
	case models.ErrKindIO:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func storeAccuracyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		storeId := strings.TrimSpace(c.Param("storeId"))
		resp, err := reports.GetStoreAccuracyReport(c.Request.Context(), storeId)
		if err != nil {
			if reports.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "store has never been loaded"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// parseDateRange reads optional from/to query params (YYYY-MM-DD).
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var fromDate, toDate *time.Time
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, errors.New("from must be YYYY-MM-DD")
		}
		fromDate = &t
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, errors.New("to must be YYYY-MM-DD")
		}
		toDate = &t
	}
	return fromDate, toDate, nil
}

func employeeSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fromDate, toDate, err := parseDateRange(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		records, err := reports.GetEmployeeSeasonReport(c.Request.Context(), fromDate, toDate)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func zoneSeasonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fromDate, toDate, err := parseDateRange(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		records, err := reports.GetZoneSeasonReport(c.Request.Context(), fromDate, toDate)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func seasonExportHandler(kind models.AccuracyKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		var err error
		switch kind {
		case models.AccuracyKeyEmployee:
			file, xerr := reports.ExportEmployeeSeasonExcel(c.Request.Context())
			if xerr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": xerr.Error()})
				return
			}
			c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Header("Content-Disposition", "attachment; filename=employee-season.xlsx")
			err = file.Write(c.Writer)
		case models.AccuracyKeyZone:
			file, xerr := reports.ExportZoneSeasonExcel(c.Request.Context())
			if xerr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": xerr.Error()})
				return
			}
			c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Header("Content-Disposition", "attachment; filename=zone-season.xlsx")
			err = file.Write(c.Writer)
		}
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "seasonExportHandler", "write xlsx", string(kind), err)
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func newRouter(logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" || c.Request.URL.Path == "/readyz" {
			c.Next()
			return
		}
		// Gate app endpoints on DB readiness. Redis stays optional.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/readyz", func(c *gin.Context) {
		components := gin.H{"db": config.GetDB() != nil}
		if rdb := config.GetRedisDB(); rdb != nil {
			components["redis"] = rdb.Ping(c.Request.Context()).Err() == nil
		}
		code := http.StatusOK
		if config.GetDB() == nil {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, components)
	})

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))
	r.Use(gin.Recovery())

	r.POST("/api/login", loginHandler())

	api := r.Group("/api", middlewares.AuthMiddleware())
	api.POST("/stores/:storeId/load", loadStoreHandler(logger))
	api.GET("/stores/:storeId/accuracy", storeAccuracyHandler())
	api.GET("/season/employees", employeeSeasonHandler())
	api.GET("/season/zones", zoneSeasonHandler())
	api.GET("/season/employees/export", seasonExportHandler(models.AccuracyKeyEmployee))
	api.GET("/season/zones/export", seasonExportHandler(models.AccuracyKeyZone))

	return r
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	r := newRouter(logger)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open. Redis stays optional:
	// without it the report cache and the per-store load lock are skipped.
	config.ConnectDatabaseWithRetry()
	if strings.TrimSpace(os.Getenv("REDIS_ADDRESS")) != "" {
		config.ConnectRedisWithRetry()
	}

	if strings.TrimSpace(os.Getenv("DISABLE_STARTUP_MIGRATIONS")) == "" {
		models.MigrateTable()
	}

	logger.WithFields(logrus.Fields{"module": "server", "port": port}).Info("counts backend ready")

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.LogError(logger, "server.go", "main", "http server", nil, err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "graceful shutdown failed: %v\n", err)
		}
	}
}
