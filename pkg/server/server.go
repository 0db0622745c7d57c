// Package server exposes the atom stores over a REST API: query
// execution, atom listing, and fuzzy node search.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynguyendang/atomspace/internal/manager"
)

// Server holds the state for the REST API server.
type Server struct {
	manager *manager.StoreManager
	router  *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(mgr *manager.StoreManager) *Server {
	r := gin.Default()
	s := &Server{
		manager: mgr,
		router:  r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/projects", s.handleProjects)
	s.router.POST("/v1/query", s.handleQuery)
	s.router.POST("/v1/atoms", s.handleAddAtoms)
	s.router.GET("/v1/atoms", s.handleAtomCount)
	s.router.GET("/v1/nodes", s.handleNodeSearch)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
