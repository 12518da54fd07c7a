package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/assistdash/assistant"
	"github.com/imattdu/assistdash/dashboard"
)

func (s *Server) overview(c *gin.Context) {
	var f dashboard.ProjectFilter
	_ = c.ShouldBindQuery(&f)
	o := dashboard.LoadOverview(c.Request.Context(), s.api, f, s.now())
	c.JSON(http.StatusOK, o)
}

// -------- projects --------

func (s *Server) listProjects(c *gin.Context) {
	var f dashboard.ProjectFilter
	_ = c.ShouldBindQuery(&f)
	projects, err := s.api.ListProjects(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.NewProjectBoard(projects, f))
}

func (s *Server) getProject(c *gin.Context) {
	p, err := s.api.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createProject(c *gin.Context) {
	var in assistant.ProjectCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	p, err := s.api.CreateProject(c.Request.Context(), in)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProject(c *gin.Context) {
	var patch assistant.ProjectUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	p, err := s.api.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProject(c *gin.Context) {
	if err := s.api.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// -------- sprint --------

func (s *Server) sprintView() dashboard.SprintView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sprint.View(s.now())
}

func (s *Server) sprintID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sprint.Current == nil {
		return ""
	}
	return s.sprint.Current.ID
}

func (s *Server) sprintStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.sprintView())
}

func (s *Server) startSprint(c *gin.Context) {
	var in assistant.SprintStart
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	if v := s.sprintView(); v.Active && !v.Expired {
		s.conflict(c, "a sprint is already running")
		return
	}
	sp, err := s.api.StartSprint(c.Request.Context(), in)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.mu.Lock()
	s.sprint = s.sprint.Start(sp)
	s.mu.Unlock()
	c.JSON(http.StatusOK, s.sprintView())
}

type nudgeBody struct {
	Message string `json:"message"`
}

func (s *Server) nudgeSprint(c *gin.Context) {
	var in nudgeBody
	_ = c.ShouldBindJSON(&in)
	id := s.sprintID()
	if id == "" {
		s.conflict(c, "no active sprint")
		return
	}
	n, err := s.api.NudgeSprint(c.Request.Context(), id, in.Message)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

type distractionBody struct {
	Distraction string `json:"distraction"`
}

func (s *Server) logDistraction(c *gin.Context) {
	var in distractionBody
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	id := s.sprintID()
	if id == "" {
		s.conflict(c, "no active sprint")
		return
	}
	if _, err := s.api.LogDistraction(c.Request.Context(), id, in.Distraction); err != nil {
		s.renderError(c, err)
		return
	}
	s.mu.Lock()
	if s.sprint.Current != nil && s.sprint.Current.ID == id {
		s.sprint = s.sprint.WithDistraction(in.Distraction)
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, s.sprintView())
}

type completeBody struct {
	Retro string `json:"retro"`
}

func (s *Server) completeSprint(c *gin.Context) {
	var in completeBody
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	id := s.sprintID()
	if id == "" {
		s.conflict(c, "no active sprint")
		return
	}
	done, err := s.api.CompleteSprint(c.Request.Context(), id, in.Retro)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.mu.Lock()
	if s.sprint.Current != nil && s.sprint.Current.ID == id {
		s.sprint = s.sprint.Complete()
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, done)
}

// -------- rituals --------

// loadRituals 首次访问时从后端拉取，之后使用本地勾选状态
func (s *Server) loadRituals(c *gin.Context) ([]dashboard.RitualChecklist, error) {
	s.mu.Lock()
	loaded := len(s.ritualIDs) > 0
	s.mu.Unlock()
	if !loaded {
		ctx := c.Request.Context()
		morning, err := s.api.MorningRitual(ctx)
		if err != nil {
			return nil, err
		}
		evening, err := s.api.EveningRitual(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if len(s.ritualIDs) == 0 {
			s.rituals["morning"] = dashboard.NewChecklist("morning", morning)
			s.rituals["evening"] = dashboard.NewChecklist("evening", evening)
			s.ritualIDs = []string{"morning", "evening"}
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dashboard.RitualChecklist, 0, len(s.ritualIDs))
	for _, id := range s.ritualIDs {
		out = append(out, s.rituals[id])
	}
	return out, nil
}

func (s *Server) listRituals(c *gin.Context) {
	out, err := s.loadRituals(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateRitual(c *gin.Context, fn func(dashboard.RitualChecklist) dashboard.RitualChecklist) {
	if _, err := s.loadRituals(c); err != nil {
		s.renderError(c, err)
		return
	}
	s.mu.Lock()
	cl, ok := s.rituals[c.Param("id")]
	if ok {
		cl = fn(cl)
		s.rituals[cl.ID] = cl
	}
	s.mu.Unlock()
	if !ok {
		s.badRequest(c, "unknown ritual "+c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ritual": cl, "progress": cl.Progress(), "complete": cl.Complete()})
}

func (s *Server) toggleRitualStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 0 {
		s.badRequest(c, "step must be a non-negative integer")
		return
	}
	s.updateRitual(c, func(cl dashboard.RitualChecklist) dashboard.RitualChecklist { return cl.Toggle(step) })
}

func (s *Server) resetRitual(c *gin.Context) {
	s.updateRitual(c, dashboard.RitualChecklist.Reset)
}

// -------- family --------

func (s *Server) loadFamily(c *gin.Context) (dashboard.FamilyBoard, error) {
	s.mu.Lock()
	b := s.family
	s.mu.Unlock()
	if b != nil {
		return *b, nil
	}
	r, err := s.api.FamilyReminders(c.Request.Context())
	if err != nil {
		return dashboard.FamilyBoard{}, err
	}
	board := dashboard.NewFamilyBoard(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.family == nil {
		s.family = &board
	}
	return *s.family, nil
}

func (s *Server) familyBoard(c *gin.Context) {
	b, err := s.loadFamily(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) updateFamily(c *gin.Context, fn func(dashboard.FamilyBoard) (dashboard.FamilyBoard, error)) {
	if _, err := s.loadFamily(c); err != nil {
		s.renderError(c, err)
		return
	}
	s.mu.Lock()
	next, err := fn(*s.family)
	if err == nil {
		s.family = &next
	}
	s.mu.Unlock()
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, next)
}

func (s *Server) toggleFamilyTask(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.badRequest(c, "index must be an integer")
		return
	}
	s.updateFamily(c, func(b dashboard.FamilyBoard) (dashboard.FamilyBoard, error) { return b.ToggleTask(i) })
}

func (s *Server) addFamilyMember(c *gin.Context) {
	var m dashboard.FamilyMember
	if err := c.ShouldBindJSON(&m); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	s.updateFamily(c, func(b dashboard.FamilyBoard) (dashboard.FamilyBoard, error) { return b.AddMember(m) })
}

// -------- tools --------

func (s *Server) toolCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, assistant.Catalog())
}

type toolBody struct {
	ToolName   string            `json:"tool_name"`
	Parameters map[string]string `json:"parameters"`
}

// executeTool 参数先经 ToolPanel 校验，只允许目录里声明过的参数
func (s *Server) executeTool(c *gin.Context) {
	var in toolBody
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	panel, err := dashboard.ToolPanel{}.Select(in.ToolName)
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	for k, v := range in.Parameters {
		if panel, err = panel.Set(k, v); err != nil {
			s.badRequest(c, err.Error())
			return
		}
	}
	call, err := panel.Call()
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	out, err := s.api.ExecuteTool(c.Request.Context(), call)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
