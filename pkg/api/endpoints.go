package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/archive"
	"github.com/skufinskiy/itnelep-tools/pkg/fio"
	"github.com/skufinskiy/itnelep-tools/pkg/greeting"
	"github.com/skufinskiy/itnelep-tools/pkg/kit"
	"github.com/skufinskiy/itnelep-tools/pkg/lexicon"
	"github.com/skufinskiy/itnelep-tools/pkg/morph"
	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

const (
	maxLeaders = 200
	maxTitles  = 100
)

var errInvalid = errors.New("invalid request")

// Defaults fill compose options a request leaves out.
type Defaults struct {
	Organization string
	Case         morph.Case
	Format       textnorm.NameFormat
}

// Service is what the HTTP and MCP transports serve. Archive and Lexicon
// may be nil.
type Service struct {
	Engine   *pipeline.Engine
	Archive  *archive.Store
	Lexicon  *lexicon.Registry
	Defaults Defaults
	Logger   *zap.Logger
	Metrics  *Metrics
}

// Shared request/response types used by both HTTP and MCP transports.

type composeRequest struct {
	Notes        string         `json:"notes"`
	Leaders      []string       `json:"leaders"`
	Backups      []string       `json:"backups,omitempty"`
	Organization string         `json:"organization"`
	Case         string         `json:"case,omitempty"`
	Format       string         `json:"format,omitempty"`
	Picks        map[int]string `json:"picks,omitempty"`
	Positions    map[int]string `json:"positions,omitempty"`
	Archive      bool           `json:"archive,omitempty"`
}

type composeResponse struct {
	Candidates          []fio.Candidate   `json:"candidates"`
	Leaders             []pipeline.Leader `json:"leaders"`
	Results             []pipeline.Result `json:"results"`
	Text                string            `json:"text"`
	InflectionAvailable bool              `json:"inflection_available"`
	RunID               string            `json:"run_id,omitempty"`
}

type extractRequest struct {
	Notes   string   `json:"notes"`
	Leaders []string `json:"leaders,omitempty"`
	Backups []string `json:"backups,omitempty"`
}

type extractResponse struct {
	Candidates []fio.Candidate   `json:"candidates"`
	Leaders    []pipeline.Leader `json:"leaders"`
}

type abbreviateRequest struct {
	Titles []string `json:"titles"`
}

type abbreviateResponse struct {
	Abbreviations []string `json:"abbreviations"`
}

func (s *Service) wrap(name string, ep kit.Endpoint) kit.Endpoint {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mws := []kit.Middleware{kit.Logging(logger, name)}
	if s.Metrics != nil {
		mws = append(mws, s.Metrics.Middleware(name))
	}
	return kit.Chain(mws[0], mws[1:]...)(ep)
}

func (s *Service) composeEndpoint() kit.Endpoint {
	return s.wrap("compose", func(_ context.Context, request any) (any, error) {
		req := request.(*composeRequest)
		return s.compose(req)
	})
}

func (s *Service) compose(req *composeRequest) (*composeResponse, error) {
	if len(req.Leaders) > maxLeaders {
		return nil, fmt.Errorf("%w: too many leaders (max %d, got %d)", errInvalid, maxLeaders, len(req.Leaders))
	}
	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}

	// Positions reach the history store only if Compose succeeds.
	sess := s.Engine.LoadCards(req.Notes, req.Leaders, req.Backups)
	for _, i := range sortedIndexes(req.Picks) {
		if err := sess.Assign(i, req.Picks[i]); err != nil {
			return nil, fmt.Errorf("pick %d: %w", i, err)
		}
	}
	for _, i := range sortedIndexes(req.Positions) {
		if err := sess.SetPosition(i, req.Positions[i]); err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
	}

	results, err := sess.Compose(opts)
	if err != nil {
		return nil, err
	}
	resp := &composeResponse{
		Candidates:          sess.Candidates(),
		Leaders:             sess.Leaders(),
		Results:             results,
		Text:                pipeline.CopyAll(results),
		InflectionAvailable: s.Engine.InflectionAvailable(),
	}
	if s.Metrics != nil {
		s.Metrics.observeResults(results)
	}
	if req.Archive && s.Archive != nil {
		run, err := s.Archive.Record(archive.Meta{
			Source:       "api",
			Organization: opts.Organization,
			Case:         opts.Case.String(),
			Format:       opts.Format.String(),
		}, results)
		if err != nil {
			return nil, fmt.Errorf("archive run: %w", err)
		}
		resp.RunID = run.ID
	}
	return resp, nil
}

func (s *Service) options(req *composeRequest) (pipeline.Options, error) {
	opts := pipeline.Options{
		Organization: req.Organization,
		Case:         s.Defaults.Case,
		Format:       s.Defaults.Format,
	}
	if strings.TrimSpace(opts.Organization) == "" {
		opts.Organization = s.Defaults.Organization
	}
	if req.Case != "" {
		c, err := morph.ParseCase(req.Case)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", errInvalid, err)
		}
		opts.Case = c
	}
	if req.Format != "" {
		f, err := textnorm.ParseNameFormat(req.Format)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", errInvalid, err)
		}
		opts.Format = f
	}
	return opts, nil
}

func (s *Service) extractEndpoint() kit.Endpoint {
	return s.wrap("extract", func(_ context.Context, request any) (any, error) {
		req := request.(*extractRequest)
		if len(req.Leaders) > maxLeaders {
			return nil, fmt.Errorf("%w: too many leaders (max %d, got %d)", errInvalid, maxLeaders, len(req.Leaders))
		}
		sess := s.Engine.LoadCards(req.Notes, req.Leaders, req.Backups)
		return extractResponse{Candidates: sess.Candidates(), Leaders: sess.Leaders()}, nil
	})
}

func (s *Service) abbreviateEndpoint() kit.Endpoint {
	return s.wrap("abbreviate", func(_ context.Context, request any) (any, error) {
		req := request.(*abbreviateRequest)
		if len(req.Titles) == 0 {
			return nil, fmt.Errorf("%w: titles array is empty", errInvalid)
		}
		if len(req.Titles) > maxTitles {
			return nil, fmt.Errorf("%w: too many titles (max %d, got %d)", errInvalid, maxTitles, len(req.Titles))
		}
		out := make([]string, len(req.Titles))
		for i, t := range req.Titles {
			out[i] = s.Engine.Abbreviate(t)
		}
		return abbreviateResponse{Abbreviations: out}, nil
	})
}

func sortedIndexes(m map[int]string) []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// clientError reports whether err was caused by the request.
func clientError(err error) bool {
	for _, target := range []error{
		errInvalid,
		pipeline.ErrNoOrganization,
		pipeline.ErrLeaderIndex,
		pipeline.ErrUnknownCandidate,
		pipeline.ErrNotResolved,
		pipeline.ErrNoLabelName,
		greeting.ErrEmptyName,
		greeting.ErrEmptyOrganization,
		archive.ErrRunNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
