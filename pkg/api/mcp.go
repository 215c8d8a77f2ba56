package api

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/skufinskiy/itnelep-tools/pkg/kit"
)

// RegisterMCPTools registers the greeter MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, svc *Service) {
	registerComposeGreetings(srv, svc)
	registerExtractPeople(srv, svc)
	registerAbbreviatePosition(srv, svc)
}

func registerComposeGreetings(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("compose_greetings",
		mcp.WithDescription("Extract people from staff notes, match leader labels to them and render five greeting scripts per resolved leader."),
		mcp.WithString("notes", mcp.Required(), mcp.Description("Free-text staff notes, one fact per line")),
		mcp.WithString("leaders", mcp.Required(), mcp.Description("Leader labels, one per line or as an array")),
		mcp.WithString("organization", mcp.Description("Organization name; the configured default is used when empty")),
		mcp.WithString("case", mcp.Description("Grammatical case of the name: nominative, dative or genitive")),
		mcp.WithString("format", mcp.Description("Name format: full, last-first or short")),
		mcp.WithObject("picks", mcp.Description(`Manual picks by 0-based leader index, e.g. {"2": "Иванов Олег Ильич"}; "@label" uses the name on the label`)),
		mcp.WithObject("positions", mcp.Description(`Positions by 0-based leader index, e.g. {"0": "Генеральный директор"}`)),
	)

	kit.RegisterMCPTool(srv, tool, svc.composeEndpoint(), func(args kit.Args) (any, error) {
		if err := args.Require("notes", "leaders"); err != nil {
			return nil, err
		}
		picks, err := args.Indexed("picks")
		if err != nil {
			return nil, err
		}
		positions, err := args.Indexed("positions")
		if err != nil {
			return nil, err
		}
		return &composeRequest{
			Notes:        args.String("notes"),
			Leaders:      args.Lines("leaders"),
			Organization: args.String("organization"),
			Case:         args.String("case"),
			Format:       args.String("format"),
			Picks:        picks,
			Positions:    positions,
		}, nil
	})
}

func registerExtractPeople(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("extract_people",
		mcp.WithDescription("List the people named in staff notes and, optionally, which of them each leader label resolves to."),
		mcp.WithString("notes", mcp.Required(), mcp.Description("Free-text staff notes")),
		mcp.WithString("leaders", mcp.Description("Leader labels, one per line or as an array")),
	)

	kit.RegisterMCPTool(srv, tool, svc.extractEndpoint(), func(args kit.Args) (any, error) {
		return &extractRequest{Notes: args.String("notes"), Leaders: args.Lines("leaders")}, nil
	})
}

func registerAbbreviatePosition(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool("abbreviate_position",
		mcp.WithDescription("Shorten job titles with the configured abbreviation rules (up to 100)."),
		mcp.WithString("titles", mcp.Required(), mcp.Description("Job titles, one per line")),
	)

	kit.RegisterMCPTool(srv, tool, svc.abbreviateEndpoint(), func(args kit.Args) (any, error) {
		if err := args.Require("titles"); err != nil {
			return nil, err
		}
		return &abbreviateRequest{Titles: args.Lines("titles")}, nil
	})
}
