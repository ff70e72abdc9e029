package webapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oukeidos/paperslight/internal/apperrors"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/paper"
)

func (s *Server) handleInit(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": s.currentUser(c)})
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	username, okUser := c.GetPostForm("username")
	password, okPass := c.GetPostForm("password")
	if !okUser || !okPass {
		s.abort(c, http.StatusBadRequest, apperrors.Validation("username and password are required."))
		return
	}
	username = strings.TrimSpace(username)
	if !s.verifier.Check(username, password) {
		logger.Warn("Admin login rejected", "username", username, "client", c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"ok": false, "username": ""})
		return
	}

	id := s.sessions.create(username)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(sessionTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	logger.Info("Admin logged in", "username", username, "client", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"ok": true, "username": username})
}

func (s *Server) handleLogout(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.remove(id)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"username": ""})
}

func (s *Server) handleTypes(c *gin.Context) {
	c.JSON(http.StatusOK, paper.Types)
}

func (s *Server) handlePapers(c *gin.Context) {
	papers, err := s.lib.Papers(c.Request.Context())
	if err != nil {
		s.abort(c, statusFor(err), err)
		return
	}
	if papers == nil {
		papers = []paper.Paper{}
	}
	c.JSON(http.StatusOK, papers)
}

func (s *Server) handleAddPaper(c *gin.Context) {
	typ, okType := c.GetPostForm("type")
	raw, okPaper := c.GetPostForm("paper")
	if !okType || !okPaper {
		s.abort(c, http.StatusBadRequest, apperrors.Validation("type and paper are required."))
		return
	}
	p, err := decodePaper(typ, raw)
	if err != nil {
		s.abort(c, http.StatusBadRequest, err)
		return
	}
	id, err := s.lib.UpdatePaper(c.Request.Context(), p)
	if err != nil {
		s.abort(c, statusFor(err), err)
		return
	}
	logger.Info("Paper added via web API", "id", id, "user", s.currentUser(c))
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// decodePaper reads the attribute object the web form posts, keyed by the
// attribute names listed in paper.Types.
func decodePaper(typ, raw string) (paper.Paper, error) {
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return paper.Paper{}, apperrors.New(apperrors.KindValidation, "paper must be a JSON object.", err)
	}

	p := paper.Paper{Type: strings.ToLower(strings.TrimSpace(typ))}
	venues := make(map[string]string, len(venueKeys))
	for key, v := range attrs {
		switch strings.ToLower(key) {
		case "title":
			p.Title = text(v)
		case "author", "authors":
			p.Authors = list(v)
		case "tag", "tags":
			p.Tags = list(v)
		case "booktitle", "journal", "school", "institution":
			venues[strings.ToLower(key)] = text(v)
		case "year":
			y, err := strconv.Atoi(text(v))
			if err != nil && text(v) != "" {
				return paper.Paper{}, apperrors.Validation(fmt.Sprintf("year %q is not a number.", text(v)))
			}
			p.Year = y
		case "pages":
			p.Pages = text(v)
		case "publisher":
			p.Publisher = text(v)
		case "url":
			p.URL = text(v)
		case "note":
			p.Note = text(v)
		}
	}
	for _, key := range venueKeys {
		if venues[key] != "" {
			p.BookTitle = venues[key]
			break
		}
	}
	return p, nil
}

// venueKeys lists the BibTeX fields that fill BookTitle, most specific first.
var venueKeys = []string{"booktitle", "journal", "school", "institution"}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// list accepts either a JSON array or a single string. BibTeX-style
// "A and B" author strings are split too.
func list(v any) []string {
	if items, ok := v.([]any); ok {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, text(it))
		}
		return out
	}
	s := text(v)
	if strings.Contains(s, " and ") {
		return paper.SplitList(strings.ReplaceAll(s, " and ", ";"))
	}
	return paper.SplitList(s)
}
