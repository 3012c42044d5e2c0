package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/S2thend/cursor-history-mcp/pkg/history"
	"github.com/S2thend/cursor-history-mcp/pkg/internalerr"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/samples"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/stats"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/topics"
)

// Paging defaults for the browse tools.
const (
	defaultSessionLimit = 20
	defaultMessageLimit = 50
)

// ListSessionsInput is the input schema for the list_sessions tool.
type ListSessionsInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"only list sessions recorded in this workspace"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of sessions to return (default 20)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"number of sessions to skip for pagination"`
}

// ListSessionsOutput is the output schema for the list_sessions tool.
type ListSessionsOutput struct {
	Sessions []SessionOutput `json:"sessions"`
	Count    int             `json:"count"`
}

// SessionOutput represents a single recorded session.
type SessionOutput struct {
	ID           string `json:"id"`
	Workspace    string `json:"workspace,omitempty"`
	Title        string `json:"title,omitempty"`
	StartedAt    string `json:"started_at"`
	LastActivity string `json:"last_activity"`
}

// GetSessionInput is the input schema for the get_session tool.
type GetSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"the session to fetch"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of messages to return (default 50)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"number of messages to skip for pagination"`
}

// GetSessionOutput is the output schema for the get_session tool.
type GetSessionOutput struct {
	Session  SessionOutput   `json:"session"`
	Messages []MessageOutput `json:"messages"`
	Count    int             `json:"count"`
}

// MessageOutput represents a single message within a session.
type MessageOutput struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// AnnualSummaryInput is the input schema for the annual_summary tool.
type AnnualSummaryInput struct {
	Year      int    `json:"year" jsonschema:"the calendar year to summarize"`
	Language  string `json:"language,omitempty" jsonschema:"report language code, en or es (defaults to the server language)"`
	Workspace string `json:"workspace,omitempty" jsonschema:"only summarize questions recorded in this workspace"`
}

// AnnualSummaryOutput is the output schema for the annual_summary tool. It
// mirrors the engine summary with the timestamp rendered as an RFC3339 string.
type AnnualSummaryOutput struct {
	Meta          SummaryMetaOutput   `json:"meta"`
	Stats         stats.Stats         `json:"stats"`
	LengthBuckets stats.LengthBuckets `json:"lengthBuckets"`
	Keywords      wrapped.Keywords    `json:"keywords"`
	Topics        []topics.Topic      `json:"topics"`
	Samples       samples.Set         `json:"samples"`
	Safety        wrapped.Safety      `json:"safety"`
	Notes         []string            `json:"notes"`
}

// SummaryMetaOutput identifies one summary run.
type SummaryMetaOutput struct {
	ReportID    string `json:"reportId"`
	GeneratedAt string `json:"generatedAt"`
	Year        int    `json:"year"`
	Language    string `json:"language"`
	Workspace   string `json:"workspace,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recorded chat sessions, most recent first",
	}, s.handleListSessions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_session",
		Description: "Fetch one chat session with a page of its messages",
	}, s.handleGetSession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "annual_summary",
		Description: "Build a sanitized year-in-review summary of the user's questions",
	}, s.handleAnnualSummary)
}

// handleListSessions handles the list_sessions tool invocation.
func (s *Server) handleListSessions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSessionsInput,
) (*mcp.CallToolResult, ListSessionsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSessionLimit
	}

	sessions, err := s.deps.Store.ListSessions(ctx, history.ListOptions{
		Workspace: input.Workspace,
		Limit:     limit,
		Offset:    input.Offset,
	})
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}

	output := ListSessionsOutput{
		Sessions: make([]SessionOutput, len(sessions)),
		Count:    len(sessions),
	}
	for i := range sessions {
		output.Sessions[i] = sessionOutput(sessions[i])
	}

	return nil, output, nil
}

// handleGetSession handles the get_session tool invocation.
func (s *Server) handleGetSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSessionInput,
) (*mcp.CallToolResult, GetSessionOutput, error) {
	session, ok, err := s.deps.Store.GetSession(ctx, input.SessionID)
	if err != nil {
		return nil, GetSessionOutput{}, err
	}
	if !ok {
		return nil, GetSessionOutput{}, fmt.Errorf("session %q: %w", input.SessionID, internalerr.ErrNotFound)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	messages, err := s.deps.Store.ListMessages(ctx, input.SessionID, limit, input.Offset)
	if err != nil {
		return nil, GetSessionOutput{}, err
	}

	output := GetSessionOutput{
		Session:  sessionOutput(session),
		Messages: make([]MessageOutput, len(messages)),
		Count:    len(messages),
	}
	for i, m := range messages {
		output.Messages[i] = MessageOutput{
			ID:        m.ID,
			Role:      m.Role,
			Text:      m.Text,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

// handleAnnualSummary handles the annual_summary tool invocation.
func (s *Server) handleAnnualSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnnualSummaryInput,
) (*mcp.CallToolResult, AnnualSummaryOutput, error) {
	collector := history.Collector{
		Store:      s.deps.Store,
		MaxRecords: s.deps.Config.MaxRecords,
	}
	records, capped, err := collector.CollectYear(ctx, input.Year, input.Workspace)
	if err != nil {
		return nil, AnnualSummaryOutput{}, err
	}

	cfg := s.deps.Config.EngineConfig(input.Year)
	cfg.Workspace = input.Workspace
	if input.Language != "" {
		cfg.Language = input.Language
	}

	summary, err := s.deps.Engine.Generate(cfg, records)
	if err != nil {
		return nil, AnnualSummaryOutput{}, err
	}

	if capped {
		summary.Notes = append(summary.Notes,
			fmt.Sprintf("record cap reached: only the first %d questions were analyzed", collector.Cap()))
	}

	return nil, summaryOutput(summary), nil
}

func sessionOutput(s history.Session) SessionOutput {
	return SessionOutput{
		ID:           s.ID,
		Workspace:    s.Workspace,
		Title:        s.Title,
		StartedAt:    s.StartedAt.UTC().Format(time.RFC3339),
		LastActivity: s.LastActivity.UTC().Format(time.RFC3339),
	}
}

func summaryOutput(s *wrapped.Summary) AnnualSummaryOutput {
	return AnnualSummaryOutput{
		Meta: SummaryMetaOutput{
			ReportID:    s.Meta.ReportID,
			GeneratedAt: s.Meta.GeneratedAt.UTC().Format(time.RFC3339),
			Year:        s.Meta.Year,
			Language:    s.Meta.Language,
			Workspace:   s.Meta.Workspace,
		},
		Stats:         s.Stats,
		LengthBuckets: s.LengthBuckets,
		Keywords:      s.Keywords,
		Topics:        s.Topics,
		Samples:       s.Samples,
		Safety:        s.Safety,
		Notes:         s.Notes,
	}
}
