package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	r := s.engine

	r.GET("/", s.handleIndex)
	r.POST("/submit", s.handleSubmit)
	r.POST("/individuals/:id/enrich", s.handleEnrich)
	r.POST("/dialog/ack", s.handleAck)
	r.GET("/api/state", s.handleState)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.started).String(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) handleIndex(c *gin.Context) {
	b := s.sessions.lookup(c)
	c.HTML(http.StatusOK, "index.html", s.page(b))
}

func (s *Server) handleState(c *gin.Context) {
	b := s.sessions.lookup(c)
	c.JSON(http.StatusOK, s.page(b))
}

func (s *Server) handleSubmit(c *gin.Context) {
	b := s.sessions.get(c)
	provider, err := s.cfg.ResolveProvider(c.PostForm("provider"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	// Mark the session as provisioning before answering so the page that
	// follows the redirect already shows the loading indicator.
	b.session.BeginSubmit(provider.ID)
	s.background(func(ctx context.Context) {
		if err := b.session.Submit(ctx, provider.ID); err == nil {
			b.resetRequested()
		}
	})
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleEnrich(c *gin.Context) {
	b := s.sessions.get(c)
	id := c.Param("id")
	if b.markRequested(id) {
		s.background(func(ctx context.Context) {
			defer b.enrichDone()
			_ = b.session.Enrich(ctx, id)
		})
	}
	c.Redirect(http.StatusSeeOther, "/#individual-"+id)
}

func (s *Server) handleAck(c *gin.Context) {
	b := s.sessions.get(c)
	b.session.Acknowledge()
	c.Redirect(http.StatusSeeOther, "/")
}
