package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/tools"
)

// ToolCaller is satisfied by *tools.Registry. Presentation handlers mutate
// state through it so human actions produce the same events as the
// agent's.
type ToolCaller interface {
	List() []tools.Descriptor
	Has(name string) bool
	Call(ctx context.Context, name string, args json.RawMessage) tools.Result
}

type ToolHandler struct {
	tools ToolCaller
}

func NewToolHandler(tools ToolCaller) *ToolHandler {
	return &ToolHandler{tools: tools}
}

func (h *ToolHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("/:name", h.call)
}

func (h *ToolHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.tools.List()})
}

// call runs a tool on behalf of the agent and returns the raw tool result.
func (h *ToolHandler) call(c *gin.Context) {
	name := c.Param("name")
	if !h.tools.Has(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown tool: " + name})
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := tools.WithSource(c.Request.Context(), domain.SourceAgent)
	c.JSON(http.StatusOK, h.tools.Call(ctx, name, body))
}

// dispatch runs a tool as the human and writes its JSON output, mapping
// failures to HTTP status codes.
func dispatch(c *gin.Context, tc ToolCaller, name string, args any) {
	var raw json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		raw = data
	}

	ctx := tools.WithSource(c.Request.Context(), domain.SourceHuman)
	res := tc.Call(ctx, name, raw)
	code := http.StatusOK
	if res.IsError {
		code = statusFor(res.ErrorInfo)
	}
	c.Data(code, "application/json; charset=utf-8", []byte(res.Text()))
}

func statusFor(info *tools.ErrorInfo) int {
	if info == nil {
		return http.StatusInternalServerError
	}
	switch info.Category {
	case tools.CategoryValidation:
		return http.StatusBadRequest
	case tools.CategoryNotFound:
		return http.StatusNotFound
	case tools.CategoryPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
