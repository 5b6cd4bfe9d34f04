// internal/api/handlers.go
package api

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "internal error while matching, please try again later"

type handler struct {
	matcher Matcher
	log     logger.Logger
}

func (h *handler) matchContractors(c *gin.Context) {
	var req models.ContractorMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	resp, err := h.matcher.MatchContractors(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) matchSubsidies(c *gin.Context) {
	var req models.SubsidyMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	resp, err := h.matcher.MatchSubsidies(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bindErrorMessage names the offending field when the body has a value of the wrong type.
func bindErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if stdErrors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + " has an invalid type"
	}
	return "invalid request body"
}

// writeError sends validation messages verbatim and hides everything else.
func (h *handler) writeError(c *gin.Context, err error) {
	stdErr := errors.AsStandardError(err)
	status := errors.HTTPStatus(stdErr.Code)
	if status == http.StatusBadRequest {
		c.JSON(status, gin.H{"error": stdErr.Message})
		return
	}

	h.log.Error("match request failed", map[string]interface{}{
		"path":  c.FullPath(),
		"code":  stdErr.Code,
		"error": err.Error(),
	})
	c.JSON(status, gin.H{"error": internalErrorMessage})
}
