package monitoring

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests served by the local API.
type Metrics struct {
	mu           sync.RWMutex
	requestCount int64
	errorCount   int64
	statusCodes  map[int]int64
	endpoints    map[string]int64
	startTime    time.Time
	lastRequest  time.Time
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	RequestCount int64            `json:"request_count"`
	ErrorCount   int64            `json:"error_count"`
	StatusCodes  map[int]int64    `json:"status_codes"`
	Endpoints    map[string]int64 `json:"endpoint_calls"`
	Uptime       string           `json:"uptime"`
	LastRequest  *time.Time       `json:"last_request,omitempty"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		statusCodes: make(map[int]int64),
		endpoints:   make(map[string]int64),
		startTime:   time.Now(),
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		statusCode := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()

		m.mu.Lock()
		defer m.mu.Unlock()
		m.requestCount++
		if statusCode >= 400 {
			m.errorCount++
		}
		m.statusCodes[statusCode]++
		m.endpoints[endpoint]++
		m.lastRequest = time.Now()
	}
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		RequestCount: m.requestCount,
		ErrorCount:   m.errorCount,
		StatusCodes:  make(map[int]int64, len(m.statusCodes)),
		Endpoints:    make(map[string]int64, len(m.endpoints)),
		Uptime:       time.Since(m.startTime).Round(time.Second).String(),
	}
	for k, v := range m.statusCodes {
		snap.StatusCodes[k] = v
	}
	for k, v := range m.endpoints {
		snap.Endpoints[k] = v
	}
	if !m.lastRequest.IsZero() {
		last := m.lastRequest
		snap.LastRequest = &last
	}
	return snap
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, m.Snapshot())
	}
}

type HealthCheckFunc func(ctx context.Context) error

type HealthDetailsFunc func() map[string]interface{}

type HealthCheck struct {
	Name    string                 `json:"name"`
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	LastRun time.Time              `json:"last_run"`
}

// HealthChecker runs registered checks on demand.
type HealthChecker struct {
	mu      sync.RWMutex
	checks  map[string]HealthCheckFunc
	details map[string]HealthDetailsFunc
	timeout time.Duration
}

func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{
		checks:  make(map[string]HealthCheckFunc),
		details: make(map[string]HealthDetailsFunc),
		timeout: timeout,
	}
}

func (h *HealthChecker) Register(name string, check HealthCheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// RegisterDetails attaches extra data, such as connection stats, to the
// result of the check called name.
func (h *HealthChecker) RegisterDetails(name string, details HealthDetailsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.details[name] = details
}

// Run executes every check and reports whether all passed.
func (h *HealthChecker) Run(ctx context.Context) ([]HealthCheck, bool) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	healthy := true
	results := make([]HealthCheck, 0, len(names))
	for _, name := range names {
		h.mu.RLock()
		check := h.checks[name]
		details := h.details[name]
		h.mu.RUnlock()

		checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := check(checkCtx)
		cancel()

		result := HealthCheck{Name: name, Status: "healthy", LastRun: time.Now()}
		if err != nil {
			result.Status = "unhealthy"
			result.Message = err.Error()
			healthy = false
		}
		if details != nil {
			result.Details = details()
		}
		results = append(results, result)
	}
	return results, healthy
}

func (h *HealthChecker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks, healthy := h.Run(c.Request.Context())

		status, code := "healthy", http.StatusOK
		if !healthy {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now(),
			"checks":    checks,
		})
	}
}
