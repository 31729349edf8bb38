package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Klondike Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Klondike Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build all four foundations (stack1..stack4) from ace to king, one suit per stack.

AVAILABLE TOOLS:
- create_session: Deal a new game (draw 1 or draw 3)
- game_state: Show every pile of a session
- move: Move cards from one pile to another (src, dst) - requires intent explanation
- undo / redo: Step back or forward through accepted moves
- hint: List the legal moves from the current layout
- quit: End a game
- move_history: View past moves
- get_session / list_sessions: Inspect sessions
- list_configs: List the rule presets
- game_instructions: Full rules and pile names

NOTE: The 'intent' parameter on the move tool serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func pileSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        engine.PileNames,
		"description": description,
	}
}

// sessionTool declares a tool whose only argument is session_id
func sessionTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Deal a new game with optional preset, draw count and card color",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use, e.g. draw1 or draw3 (optional)",
				},
				"draw": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"Draw 1", "Draw 3"},
					"description": "Cards turned per draw (optional, overrides the preset)",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"enum":        engine.CardColors,
					"description": "Card back color (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(sessionTool("get_session", "Get details of a specific session"), c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(sessionTool("game_state", "Show every pile of a session; face-down cards appear as ##"), c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move cards from src to dst. draw->discard turns cards over (and refills the draw pile when it is empty).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"src":        pileSchema("Pile to take cards from"),
				"dst":        pileSchema("Pile to place cards on"),
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "src", "dst"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(sessionTool("undo", "Undo the most recent move"), c.handleUndo)
	c.mcpServer.AddTool(sessionTool("redo", "Redo the most recently undone move"), c.handleRedo)
	c.mcpServer.AddTool(sessionTool("hint", "List the legal moves from the current layout"), c.handleHint)
	c.mcpServer.AddTool(sessionTool("quit", "End a game; it accepts no further moves"), c.handleQuit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]string{}
	for _, key := range []string{"config_id", "draw", "color"} {
		if v := stringArg(args, key); v != "" {
			body[key] = v
		}
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s, draw %d\n\n%s",
		session.ID, session.ConfigName, session.DrawCount, formatState(session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (config: %s, draw %d, moves: %d, remaining: %d, status: %s%s)\n",
			s.ID, s.ConfigName, s.DrawCount, s.Moves, s.CardsRemaining, s.Status, inactiveSuffix(s.Active))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var state engine.State
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")
	move := engine.Move{Src: stringArg(args, "src"), Dst: stringArg(args, "dst")}

	// The intent argument is for the caller's benefit only

	var result service.MoveResult
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, "/move"), move, &result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s -> %s rejected: %s", move.Src, move.Dst, err)), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.navigate(ctx, request, "/undo", "Undid the last move")
}

func (c *Client) handleRedo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.navigate(ctx, request, "/redo", "Redid the last undone move")
}

func (c *Client) navigate(ctx context.Context, request mcp.CallToolRequest, suffix, message string) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var state engine.State
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(message + "\n\n" + formatState(&state)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var response struct {
		Count int           `json:"count"`
		Moves []engine.Move `json:"moves"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/hint"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHint(response.Moves)), nil
}

func (c *Client) handleQuit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(arguments(request), "session_id")

	var response struct {
		Message string              `json:"message"`
		Session service.SessionInfo `json:"session"`
	}
	if err := c.apiCall(ctx, "PUT", sessionPath(sessionID, "/quit"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s after %d moves with %d cards remaining",
		response.Message, response.Session.Moves, response.Session.CardsRemaining)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(args, "session_id")

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Draw: %d", config.ConfigID, config.Name, config.Description, config.DrawCount)
		if config.Color != "" {
			fmt.Fprintf(&b, ", color: %s", config.Color)
		}
		b.WriteString("\n\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Klondike Solitaire - Complete Instructions

GAME OBJECTIVE:
Move all 52 cards onto the four foundations, each built ace to king in a single suit.

PILES:
• pile1..pile7: the tableau. pileN starts with N cards, only the top one face up.
• stack1..stack4: the foundations, empty at the start.
• draw: the stock, 24 face-down cards at the start.
• discard: the waste, cards turned over from draw.

MOVES (src -> dst):
• draw -> discard: turn 1 or 3 cards (the session's draw count) face up onto discard.
  When draw is empty this puts every discard card back onto draw instead.
• discard -> pileN: the top discard card goes on a tableau pile.
• discard -> stackN: the top discard card goes on a foundation.
• pileN -> pileM: moves the longest face-up run whose bottom card fits on pileM.
• pileN -> stackN: the top card of a tableau pile goes on a foundation.
• stackN -> pileN: a foundation card comes back to the tableau.
After a tableau card leaves a pile, the newly exposed card turns face up.

PLACEMENT RULES:
• Tableau: one rank lower and the opposite color of the top card. Only a king goes on an empty pile.
• Foundation: an ace on an empty stack, then the same suit one rank higher.

STATUS:
• won: all four foundations hold 13 cards.
• lost: no productive move remains.
Won and lost games still accept undo, so a lost position can be taken back.

TOOLS:
• hint lists every legal move, undo and redo walk the history, quit ends the game.

CARD NOTATION:
A 2..10 J Q K followed by a suit letter: S spades, C clubs, H hearts, D diamonds. ## is face down.`

// Formatting helpers

var suitLetters = map[engine.Suit]string{
	engine.Spades:   "S",
	engine.Clubs:    "C",
	engine.Hearts:   "H",
	engine.Diamonds: "D",
}

// shortCard renders a card as rank plus suit letter, or ## when face down
func shortCard(c engine.Card) string {
	if !c.Up {
		return "##"
	}
	var rank string
	switch c.Value {
	case engine.Ace:
		rank = "A"
	case engine.Jack:
		rank = "J"
	case engine.Queen:
		rank = "Q"
	case engine.King:
		rank = "K"
	default:
		rank = fmt.Sprintf("%d", int(c.Value))
	}
	return rank + suitLetters[c.Suit]
}

func formatPile(cards []engine.Card) string {
	if len(cards) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = shortCard(c)
	}
	return strings.Join(parts, " ")
}

func inactiveSuffix(active bool) string {
	if active {
		return ""
	}
	return ", quit"
}

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nDraw: %d\n", session.ID, session.ConfigName, session.DrawCount)
	if session.Color != "" {
		fmt.Fprintf(&b, "Color: %s\n", session.Color)
	}
	fmt.Fprintf(&b, "Moves: %d\nCards remaining: %d\nStatus: %s%s\n",
		session.Moves, session.CardsRemaining, session.Status, inactiveSuffix(session.Active))
	fmt.Fprintf(&b, "Can undo: %t, can redo: %t\n", session.CanUndo, session.CanRedo)
	fmt.Fprintf(&b, "Created: %s\n", session.CreatedAt.Format(time.RFC3339))
	if session.State != nil {
		b.WriteString("\n" + formatState(session.State))
	}
	return b.String()
}

// formatState lists the foundations, the draw and discard piles, then the tableau
func formatState(state *engine.State) string {
	if state == nil {
		return "(no state)"
	}

	var b strings.Builder
	b.WriteString("FOUNDATIONS:\n")
	for i, stack := range state.Foundations() {
		top := "(empty)"
		if n := len(stack); n > 0 {
			top = fmt.Sprintf("%s (%d)", shortCard(stack[n-1]), n)
		}
		fmt.Fprintf(&b, "  %s: %s\n", engine.FoundationNames[i], top)
	}

	discardTop := "(empty)"
	if n := len(state.Discard); n > 0 {
		discardTop = shortCard(state.Discard[n-1])
	}
	fmt.Fprintf(&b, "DRAW: %d cards\nDISCARD: %d cards, top %s\n", len(state.Draw), len(state.Discard), discardTop)

	b.WriteString("TABLEAU:\n")
	for i, pile := range state.Tableau() {
		fmt.Fprintf(&b, "  %s: %s\n", engine.TableauNames[i], formatPile(pile))
	}

	fmt.Fprintf(&b, "CARDS REMAINING: %d\n", state.CardsRemaining())
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s -> %s (move %d, result: %s)\n", result.Move.Src, result.Move.Dst, result.Moves, result.Result)

	for _, event := range result.Events {
		fmt.Fprintf(&b, "  [%s] %s\n", event.Type, event.Message)
	}

	switch result.Result {
	case engine.ResultWon:
		b.WriteString("\n🎉 GAME WON!\n")
	case engine.ResultLost:
		b.WriteString("\nNo productive moves remain. Try undo or quit.\n")
	}

	b.WriteString("\n" + formatState(result.State))
	return b.String()
}

func formatHint(moves []engine.Move) string {
	if len(moves) == 0 {
		return "No legal moves."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Legal moves (%d):\n", len(moves))
	for _, m := range moves {
		fmt.Fprintf(&b, "  %s -> %s\n", m.Src, m.Dst)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves)\n\n", history.Page, history.TotalPages, history.TotalMoves)

	for _, entry := range history.Moves {
		fmt.Fprintf(&b, "#%d: %s -> %s (%s) at %s\n",
			entry.MoveNumber, entry.Src, entry.Dst, entry.Result, entry.Timestamp.Format("15:04:05"))
	}

	if history.HasNext {
		b.WriteString("\n(More moves available on next page)")
	}

	return b.String()
}
