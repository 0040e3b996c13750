package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"langid-go/internal/service"
)

// LanguageToolServer exposes the classifier as an MCP tool so editor and
// agent integrations can call it over the streamable HTTP transport.
type LanguageToolServer struct {
	server     *mcp.Server
	classifier *service.Classifier
	logger     *zap.Logger
	handler    *mcp.StreamableHTTPHandler
}

type DetectLanguageParams struct {
	Text string `json:"text" jsonschema:"the source code snippet to identify"`
}

func NewLanguageToolServer(classifier *service.Classifier, logger *zap.Logger) *LanguageToolServer {
	server := &LanguageToolServer{
		classifier: classifier,
		logger:     logger,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "LangID",
		Version: "1.0.0",
	}, nil)

	// Register the detectLanguage tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "detectLanguage",
		Description: "Predict the programming language of a source code snippet. Returns one language symbol from the classifier's fixed label set.",
	}, server.handleDetectLanguage)

	server.handler = mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	server.server = mcpServer
	return server
}

func (s *LanguageToolServer) handleDetectLanguage(ctx context.Context, req *mcp.CallToolRequest, args DetectLanguageParams) (*mcp.CallToolResult, any, error) {
	s.logger.Info("Handling detectLanguage request", zap.Int("text_length", len(args.Text)))

	language, err := s.classifier.ClassifyText(args.Text)
	if err != nil {
		s.logger.Error("Failed to classify snippet", zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Failed to classify snippet: %v", err)}},
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: language}},
	}, nil, nil
}

// SetupHTTPRoutes mounts the MCP streamable HTTP transport on the router.
func (s *LanguageToolServer) SetupHTTPRoutes(router *gin.Engine) {
	router.Any("/mcp", gin.WrapH(s.handler))
}
