package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-webutils/internal/text"
	"github.com/oszuidwest/zwfm-webutils/internal/utils"
)

// ReplaceText replaces a keyword in its lower, capitalized and upper case forms.
func (h *Handlers) ReplaceText(c *gin.Context) {
	var req ReplaceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	utils.Success(c, TextResponse{Text: text.ReplaceKeyword(req.Text, req.Keyword, req.Replacement)})
}
