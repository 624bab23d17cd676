package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// maxUploadBytes bounds how much of an uploaded document is read.
const maxUploadBytes = 20 << 20

// QAService is the pipeline surface the HTTP handlers depend on.
type QAService interface {
	Ingest(ctx context.Context, text, name string) (string, error)
	Ask(ctx context.Context, q domain.Query) (domain.TurnResult, error)
	Indexes() ([]string, error)
	History(ctx context.Context, sessionID string) ([]domain.Turn, error)
	Sessions(ctx context.Context) ([]string, error)
}

// Handler holds the HTTP handlers for the question-answering API.
type Handler struct {
	svc QAService
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc QAService) *Handler {
	return &Handler{svc: svc}
}

// Root is a liveness endpoint.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Hello World"})
}

type uploadResponse struct {
	Message   string `json:"message"`
	IndexName string `json:"index_name"`
	Summary   string `json:"summary,omitempty"`
}

// UploadDoc accepts a multipart text document, builds a vector index named
// after the file, and reports a short summary of its content.
func (h *Handler) UploadDoc(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".txt" && ext != ".md" {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %q, only .txt and .md are accepted", ext))
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}

	name := deriveIndexName(fh.Filename)
	summary, err := h.svc.Ingest(c.Request().Context(), string(data), name)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return echo.NewHTTPError(http.StatusBadRequest, "document contains no text")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to index document")
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Message:   fmt.Sprintf("index %q created", name),
		IndexName: name,
		Summary:   summary,
	})
}

type qaResponse struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// QA answers one conversational question against a named index.
func (h *Handler) QA(c echo.Context) error {
	var q domain.Query
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if strings.TrimSpace(q.SessionID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	res, err := h.svc.Ask(c.Request().Context(), q)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return echo.NewHTTPError(http.StatusBadRequest, "query is required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to answer question")
	}

	return c.JSON(http.StatusOK, qaResponse{Query: res.RewrittenQuery, Response: res.Answer})
}

// GetIndexes lists the names of all persisted indexes.
func (h *Handler) GetIndexes(c echo.Context) error {
	names, err := h.svc.Indexes()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list indexes")
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"indexes": names})
}

// GetConvs returns the full conversation log for a session, or the known
// session ids when no id is given.
func (h *Handler) GetConvs(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		sessions, err := h.svc.Sessions(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to list sessions")
		}
		if sessions == nil {
			sessions = []string{}
		}
		return c.JSON(http.StatusOK, map[string][]string{"sessions": sessions})
	}

	turns, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read conversation")
	}
	if turns == nil {
		turns = []domain.Turn{}
	}
	return c.JSON(http.StatusOK, map[string][]domain.Turn{"conversation": turns})
}

// deriveIndexName turns an uploaded filename into a filesystem-safe index
// name: the extension is dropped and whitespace collapses to underscores.
func deriveIndexName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	fields := strings.Fields(base)
	name := strings.Join(fields, "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "document"
	}
	return name
}
