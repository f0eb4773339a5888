package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *WebServer) homePage(c *gin.Context) {
	body, err := s.index.Render()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err, nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
