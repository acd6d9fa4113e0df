package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-webutils/internal/jsonpatch"
	"github.com/oszuidwest/zwfm-webutils/internal/utils"
)

// InjectJSON sets the requested top-level properties on a JSON object.
func (h *Handlers) InjectJSON(c *gin.Context) {
	var req InjectRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doc, err := jsonpatch.InjectRawProperties(string(req.Document), req.Properties)
	if err != nil {
		handleServiceError(c, err, "Document")
		return
	}

	utils.JSONContent(c, http.StatusOK, json.RawMessage(doc))
}

// AppendJSON appends an element to a JSON array.
func (h *Handlers) AppendJSON(c *gin.Context) {
	var req AppendRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doc, err := jsonpatch.InsertJSONIntoArray(string(req.Document), string(req.Element))
	if err != nil {
		handleServiceError(c, err, "Document")
		return
	}

	utils.JSONContent(c, http.StatusOK, json.RawMessage(doc))
}
