package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/adapter/gin/middleware"
	"grocery-delivery-service/internal/domain/common"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/logger"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

func toPagination(p *common.Pagination) *Pagination {
	if p == nil {
		return nil
	}
	return &Pagination{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages}
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondPage(c *gin.Context, data any, p *common.Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: toPagination(p)})
}

func respondFail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: code, Message: message})
}

// respondError converts usecase errors to appropriate HTTP responses
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status, code, message := pkgerrors.Resolve(err)
	l := logger.WithContext(c.Request.Context(), log)
	if status >= http.StatusInternalServerError {
		l.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		l.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	respondFail(c, status, code, message)
}

// bindJSON decodes the request body and writes a 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid_request", "request body is not valid JSON: "+err.Error())
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be empty,
// including chunked requests without a Content-Length.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	respondFail(c, http.StatusBadRequest, "invalid_request", "request body is not valid JSON: "+err.Error())
	return false
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	return parseID(c, name, c.Param(name))
}

func parseID(c *gin.Context, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondFail(c, http.StatusBadRequest, "invalid_id", name+" must be a positive number")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int64, int64) {
	return common.NormalizePage(cast.ToInt64(c.Query("page")), cast.ToInt64(c.Query("limit")))
}

// queryBool returns nil when the parameter is absent or not a boolean.
func queryBool(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return nil
	}
	return &b
}

// queryTime parses a date (YYYY-MM-DD) or RFC 3339 timestamp. A bare date used
// as an upper bound covers the whole day.
func queryTime(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "validation_error", name+" must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		return nil, false
	}
	t = t.UTC()
	if endOfDay && len(raw) == len("2006-01-02") {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}

func queryRange(c *gin.Context) (from, to *time.Time, ok bool) {
	if from, ok = queryTime(c, "from", false); !ok {
		return nil, nil, false
	}
	if to, ok = queryTime(c, "to", true); !ok {
		return nil, nil, false
	}
	return from, to, true
}

// actor returns the signed-in account. Routes using it sit behind Authenticate.
var actor = middleware.GetActor
