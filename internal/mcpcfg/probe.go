package mcpcfg

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/viltkit/viltkit/internal/logger"
)

// ProbeResult reports the outcome of handshaking one configured server.
type ProbeResult struct {
	Name          string
	ServerName    string
	ServerVersion string
	Tools         []string
	Err           error
}

// OK reports whether the probe succeeded.
func (r ProbeResult) OK() bool { return r.Err == nil }

// Probe launches the server described by cfg, performs the MCP initialize
// handshake, and lists its tools. cfg should already be env-expanded.
func Probe(ctx context.Context, name string, cfg *ServerConfig) ProbeResult {
	result := ProbeResult{Name: name}

	var serverTransport transport.Interface
	switch {
	case cfg.IsHTTP():
		httpTransport, err := transport.NewStreamableHTTP(cfg.URL)
		if err != nil {
			result.Err = fmt.Errorf("create http transport: %w", err)
			return result
		}
		serverTransport = httpTransport
	case cfg.Command != "":
		serverTransport = transport.NewStdio(cfg.Command, envSlice(cfg.Env), cfg.Args...)
	default:
		result.Err = fmt.Errorf("server has neither command nor url")
		return result
	}

	mcpClient := client.NewClient(serverTransport)
	if err := mcpClient.Start(ctx); err != nil {
		result.Err = fmt.Errorf("start server: %w", err)
		return result
	}
	defer func() {
		if err := mcpClient.Close(); err != nil {
			logger.L().Debug("close mcp client", zap.String("server", name), zap.Error(err))
		}
	}()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "viltkit",
		Version: "1.0.0",
	}

	initResult, err := mcpClient.Initialize(ctx, initRequest)
	if err != nil {
		result.Err = fmt.Errorf("initialize: %w", err)
		return result
	}
	result.ServerName = initResult.ServerInfo.Name
	result.ServerVersion = initResult.ServerInfo.Version

	toolsResult, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		// A server without the tools capability still counts as healthy.
		logger.L().Debug("list tools failed", zap.String("server", name), zap.Error(err))
		return result
	}
	for _, tool := range toolsResult.Tools {
		result.Tools = append(result.Tools, tool.Name)
	}
	sort.Strings(result.Tools)
	return result
}

// ProbeAll probes every server in the file, env-expanded against vars,
// returning results in name order. Each probe gets its own deadline of
// perProbe (when positive), so one hung server cannot starve the rest.
func ProbeAll(ctx context.Context, f *File, vars map[string]string, perProbe time.Duration) []ProbeResult {
	results := make([]ProbeResult, 0, len(f.Servers))
	for _, name := range f.Names() {
		probeCtx := ctx
		cancel := func() {}
		if perProbe > 0 {
			probeCtx, cancel = context.WithTimeout(ctx, perProbe)
		}
		results = append(results, Probe(probeCtx, name, f.Servers[name].Expanded(vars)))
		cancel()
	}
	return results
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
