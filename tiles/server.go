package tiles

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/latnoise/config"
	"github.com/pthm-cable/latnoise/field"
)

// Registry is where the server registers and gathers metrics.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Server renders tiles on demand and caches the encoded bytes.
type Server struct {
	cfg     *config.Config
	pool    *field.Pool
	store   Store // nil = no caching
	metrics *Metrics
	log     *slog.Logger
	proc    *processStats
	engine  *gin.Engine
}

// NewServer wires routes, middleware and metrics. cfg supplies defaults for
// query parameters and the tile size limits.
func NewServer(cfg *config.Config, pool *field.Pool, store Store, reg Registry, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		pool:    pool,
		store:   store,
		metrics: NewMetrics("latnoise", reg),
		log:     log,
		proc:    newProcessStats(log),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.metrics.Handler())
	r.GET("/health", s.handleHealth)
	r.GET("/kinds", s.handleKinds)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/tiles/:kind/:seed/:tx/:ty", s.handleTile)
	s.engine = r
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		s.log.Info("http",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	h := gin.H{
		"status":  "ok",
		"workers": s.pool.Workers(),
		"cache":   s.store != nil,
	}
	s.proc.fill(c.Request.Context(), h)
	c.JSON(http.StatusOK, h)
}

func (s *Server) handleKinds(c *gin.Context) {
	type kindInfo struct {
		Name     string `json:"name"`
		Signed   bool   `json:"signed"`
		Periodic bool   `json:"periodic"`
	}
	out := make([]kindInfo, len(field.AllKinds))
	for i, k := range field.AllKinds {
		out[i] = kindInfo{Name: k.String(), Signed: k.Signed(), Periodic: k.Periodic()}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleTile(c *gin.Context) {
	req, err := s.parseRequest(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := req.Key()
	if data, ok := s.lookup(key); ok {
		s.writeTile(c, req, data, "hit")
		return
	}

	data, err := s.render(req)
	if errors.Is(err, ErrBadRequest) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("rendering tile", "key", key, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	if s.store != nil {
		if err := s.store.Put(key, data); err != nil {
			s.log.Warn("caching tile", "key", key, "error", err)
		}
	}
	s.writeTile(c, req, data, "miss")
}

func (s *Server) writeTile(c *gin.Context, req Request, data []byte, cache string) {
	c.Header("X-Cache", cache)
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, req.Format.ContentType(), data)
}

func (s *Server) lookup(key string) ([]byte, bool) {
	if s.store == nil {
		return nil, false
	}
	data, ok, err := s.store.Get(key)
	switch {
	case err != nil:
		s.log.Warn("reading tile cache", "key", key, "error", err)
		s.metrics.countLookup("error")
	case ok:
		s.metrics.countLookup("hit")
	default:
		s.metrics.countLookup("miss")
	}
	return data, err == nil && ok
}

func (s *Server) render(req Request) ([]byte, error) {
	fld, err := req.Field()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	values := make([]float32, req.Size*req.Size)
	if err := s.pool.FillRegion(fld, values, req.Size, req.Size, req.Region()); err != nil {
		return nil, err
	}
	data, err := Encode(values, req.Size, fld, req.Format)
	if err != nil {
		return nil, err
	}
	s.metrics.observeRender(req.Kind.String(), time.Since(start))
	return data, nil
}

// parseRequest reads path and query parameters. Missing query parameters
// fall back to the field and server config.
func (s *Server) parseRequest(c *gin.Context) (Request, error) {
	var req Request

	kind, err := field.ParseKind(c.Param("kind"))
	if err != nil {
		return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	req.Kind = kind

	seed, err := strconv.ParseInt(c.Param("seed"), 10, 32)
	if err != nil {
		return req, fmt.Errorf("%w: seed %q", ErrBadRequest, c.Param("seed"))
	}
	req.Seed = int32(seed)

	if req.TX, err = strconv.Atoi(c.Param("tx")); err != nil {
		return req, fmt.Errorf("%w: tile coordinate %q", ErrBadRequest, c.Param("tx"))
	}
	ty, ext, err := splitTileName(c.Param("ty"))
	if err != nil {
		return req, err
	}
	req.TY = ty

	format := c.DefaultQuery("format", ext)
	if req.Format, err = ParseFormat(format); err != nil {
		return req, err
	}

	req.Frequency = s.cfg.Derived.Frequency32
	if v, ok := c.GetQuery("freq"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return req, fmt.Errorf("%w: frequency %q", ErrBadRequest, v)
		}
		req.Frequency = float32(f)
	}

	// The configured default only applies to kinds that can tile.
	req.Tileable = s.cfg.Field.Tileable && kind.Periodic()
	if v, ok := c.GetQuery("tileable"); ok {
		if req.Tileable, err = strconv.ParseBool(v); err != nil {
			return req, fmt.Errorf("%w: tileable %q", ErrBadRequest, v)
		}
	}

	req.Size = s.cfg.Server.TileSize
	if v, ok := c.GetQuery("size"); ok {
		if req.Size, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("%w: size %q", ErrBadRequest, v)
		}
	}
	if req.Size < 1 || req.Size > s.cfg.Server.MaxTileSize {
		return req, fmt.Errorf("%w: size %d outside 1..%d", ErrBadRequest, req.Size, s.cfg.Server.MaxTileSize)
	}
	return req, nil
}
