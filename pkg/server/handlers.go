package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/atom/sexpr"
	"github.com/duynguyendang/atomspace/pkg/common/errors"
	"github.com/duynguyendang/atomspace/pkg/join"
	"github.com/duynguyendang/atomspace/pkg/search"
)

func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message, "detail": appErr.Error()})
}

// handleProjects returns a list of available projects.
func (s *Server) handleProjects(c *gin.Context) {
	projects, err := s.manager.ListProjects()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// handleQuery compiles a join query from its s-expression form and
// executes it against the project's space.
func (s *Server) handleQuery(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	queryID := uuid.NewString()
	projectID := c.Query("project")
	sp, err := s.manager.GetSpace(projectID)
	if err != nil {
		handleError(c, err)
		return
	}

	parsed, err := sexpr.Parse(req.Query)
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Malformed query", err))
		return
	}
	q, err := join.FromAtom(sp, parsed)
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid join query", err))
		return
	}

	results, err := q.Execute(nil)
	if err != nil {
		slog.Error("query failed", "queryID", queryID, "project", projectID, "error", err)
		handleError(c, err)
		return
	}

	rendered := make([]string, 0, results.Len())
	for _, a := range results.Atoms() {
		rendered = append(rendered, sexpr.Print(a))
	}
	slog.Info("query executed", "queryID", queryID, "project", projectID, "results", len(rendered))
	c.JSON(http.StatusOK, gin.H{"queryID": queryID, "results": rendered})
}

// handleAddAtoms interns a batch of atoms sent as s-expression text.
func (s *Server) handleAddAtoms(c *gin.Context) {
	var req struct {
		Atoms string `json:"atoms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	sp, err := s.manager.GetSpace(c.Query("project"))
	if err != nil {
		handleError(c, err)
		return
	}
	atoms, err := sexpr.ParseAll(req.Atoms)
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Malformed atoms", err))
		return
	}
	for _, a := range atoms {
		sp.Add(a)
	}
	c.JSON(http.StatusOK, gin.H{"added": len(atoms), "total": sp.Count()})
}

// handleAtomCount reports the size of a project's space.
func (s *Server) handleAtomCount(c *gin.Context) {
	sp, err := s.manager.GetSpace(c.Query("project"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"atoms": sp.Count()})
}

// handleNodeSearch ranks node names against a fuzzy query string.
func (s *Server) handleNodeSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing q parameter", nil))
		return
	}
	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	sp, err := s.manager.GetSpace(c.Query("project"))
	if err != nil {
		handleError(c, err)
		return
	}

	var names []string
	seen := make(map[string]bool)
	sp.ForEach(func(a *atom.Atom) bool {
		if a.IsNode() && !a.IsVariable() && !seen[a.Name] {
			seen[a.Name] = true
			names = append(names, a.Name)
		}
		return true
	})

	c.JSON(http.StatusOK, gin.H{"matches": search.FindNodesBySimilarity(query, names, limit)})
}
