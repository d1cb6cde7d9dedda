package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fundboard/internal/models"
	"fundboard/internal/service"
	"fundboard/web"
)

const (
	defaultLimit        = 20
	maxRankingLimit     = 200
	maxEstimateRankings = 50
)

var fundCode = regexp.MustCompile(`^\d+$`)

type Handler struct {
	svc   service.FundProvider
	funds []models.FundListItem
	log   *logrus.Logger
}

func NewHandler(svc service.FundProvider, funds []models.FundListItem, log *logrus.Logger) *Handler {
	if funds == nil {
		funds = []models.FundListItem{}
	}
	return &Handler{svc: svc, funds: funds, log: log}
}

// handlerFunc is a route whose returned error becomes a 500 {"error": ...} response.
type handlerFunc func(c *gin.Context) error

func (h *Handler) wrap(fn handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			h.log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			writeError(c, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeJSON(c *gin.Context, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	c.Data(status, "application/json", bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}

func writeError(c *gin.Context, status int, msg string) {
	b, _ := json.Marshal(gin.H{"error": msg})
	c.Data(status, "application/json", b)
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
}

// queryLimit reads ?limit=; missing, unparsable or non-positive values fall back to 20.
func queryLimit(c *gin.Context, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		n = defaultLimit
	}
	if n > max {
		n = max
	}
	return n
}

func queryUp(c *gin.Context) bool {
	t := c.Query("type")
	return t == "" || t == "up"
}

func (h *Handler) Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html;charset=UTF-8", web.Index())
}

func (h *Handler) Health(c *gin.Context) error {
	return writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) FundList(c *gin.Context) error {
	return writeJSON(c, http.StatusOK, h.funds)
}

func (h *Handler) Indices(c *gin.Context) error {
	return writeJSON(c, http.StatusOK, gin.H{"indices": h.svc.Indices(c.Request.Context())})
}

func (h *Handler) Ranking(c *gin.Context) error {
	ranking := h.svc.Ranking(c.Request.Context(), queryUp(c), queryLimit(c, maxRankingLimit))
	return writeJSON(c, http.StatusOK, gin.H{"ranking": ranking})
}

func (h *Handler) EstimateRanking(c *gin.Context) error {
	ranking := h.svc.EstimateRanking(c.Request.Context(), queryUp(c), queryLimit(c, maxEstimateRankings))
	return writeJSON(c, http.StatusOK, gin.H{"ranking": ranking})
}

func (h *Handler) Estimate(c *gin.Context) error {
	code := c.Query("code")
	if code == "" {
		writeError(c, http.StatusBadRequest, "code required")
		return nil
	}
	e, err := h.svc.Estimate(c.Request.Context(), code)
	if errors.Is(err, service.ErrNoEstimate) {
		writeError(c, http.StatusNotFound, "no data")
		return nil
	}
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, e)
}

// withCode guards the /api/fund/:code/* routes; non-numeric codes are unknown paths.
func withCode(fn func(c *gin.Context, code string) error) handlerFunc {
	return func(c *gin.Context) error {
		code := c.Param("code")
		if !fundCode.MatchString(code) {
			notFound(c)
			return nil
		}
		return fn(c, code)
	}
}

func (h *Handler) Detail(c *gin.Context, code string) error {
	return writeJSON(c, http.StatusOK, gin.H{"detail": h.svc.Detail(c.Request.Context(), code)})
}

func (h *Handler) Portfolio(c *gin.Context, code string) error {
	return writeJSON(c, http.StatusOK, h.svc.Portfolio(c.Request.Context(), code))
}

func (h *Handler) Performance(c *gin.Context, code string) error {
	return writeJSON(c, http.StatusOK, h.svc.Performance(c.Request.Context(), code))
}
