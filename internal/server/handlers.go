package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/ironsheep/lateral-flow-mcp/internal/analysis"
	"github.com/ironsheep/lateral-flow-mcp/internal/calibrate"
	"github.com/ironsheep/lateral-flow-mcp/internal/classify"
	"github.com/ironsheep/lateral-flow-mcp/internal/config"
	"github.com/ironsheep/lateral-flow-mcp/internal/detection"
	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "card_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A card that cannot be read is not a tool error: card_analyze reports it
// through its result code.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "card_analyze":
		return s.handleCardAnalyze(args)
	case "card_locate_markers":
		return s.handleCardLocateMarkers(args)
	case "card_sample_colors":
		return s.handleCardSampleColors(args)
	case "card_crop":
		return s.handleCardCrop(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Card Handlers ===

// cardArgs are the arguments shared by the card tools. Nil overrides keep
// the server configuration.
type cardArgs struct {
	Path           string   `json:"path"`
	RowStride      *int     `json:"row_stride,omitempty"`
	RatioTolerance *float64 `json:"ratio_tolerance,omitempty"`
	DedupDistance  *float64 `json:"dedup_distance,omitempty"`
}

func (a cardArgs) apply(cfg config.Config) config.Config {
	if a.RowStride != nil {
		cfg.Scan.RowStride = *a.RowStride
	}
	if a.RatioTolerance != nil {
		cfg.Scan.RatioTolerance = *a.RatioTolerance
	}
	if a.DedupDistance != nil {
		cfg.Scan.DedupDistance = *a.DedupDistance
	}
	return cfg
}

// card is a loaded photo with the analyzer configured for it.
type card struct {
	args     cardArgs
	analyzer *analysis.Analyzer
	img      image.Image
	buf      imaging.PixelBuffer
}

// loadCard parses card arguments, loads the photo and builds an analyzer for it.
func (s *Server) loadCard(args json.RawMessage) (*card, error) {
	var a cardArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cfg := a.apply(s.cfg)
	img = imaging.Downscale(img, cfg.MaxDimension)
	return &card{
		args:     a,
		analyzer: analysis.New(cfg, analysis.WithLogger(s.log.Named("analysis"))),
		img:      img,
		buf:      imaging.FromImage(img),
	}, nil
}

// AnalyzeResult is the card_analyze result.
type AnalyzeResult struct {
	AnalysisID string            `json:"analysis_id"`
	Path       string            `json:"path"`
	Category   classify.Category `json:"category"`
	Conclusive bool              `json:"conclusive"`
	Retake     bool              `json:"retake_photo"`
	FreshCard  bool              `json:"fresh_card"`
	*analysis.Report
}

func (s *Server) handleCardAnalyze(args json.RawMessage) (interface{}, error) {
	c, err := s.loadCard(args)
	if err != nil {
		return nil, err
	}

	rep := c.analyzer.Analyze(c.buf)
	id := uuid.New().String()
	s.log.Info("card analyzed", "analysis_id", id, "path", c.args.Path, "code", rep.Code)

	return &AnalyzeResult{
		AnalysisID: id,
		Path:       c.args.Path,
		Category:   rep.Code.Category(),
		Conclusive: rep.Code.Conclusive(),
		Retake:     rep.Code.Retake(),
		FreshCard:  rep.Code.FreshCard(),
		Report:     rep,
	}, nil
}

// LocateResult is the card_locate_markers result.
type LocateResult struct {
	Patterns []detection.FinderPattern `json:"patterns"`
	Count    int                       `json:"count"`
	Markers  *detection.Arrangement    `json:"markers,omitempty"`
}

func (s *Server) handleCardLocateMarkers(args json.RawMessage) (interface{}, error) {
	c, err := s.loadCard(args)
	if err != nil {
		return nil, err
	}
	if err := c.analyzer.Config().Validate(); err != nil {
		return nil, err
	}

	found := c.analyzer.Locate(c.buf)
	res := &LocateResult{Patterns: found, Count: len(found)}
	if three, err := detection.Three(found); err == nil {
		arr := detection.ArrangePatterns(three)
		res.Markers = &arr
	}
	if res.Patterns == nil {
		res.Patterns = []detection.FinderPattern{}
	}
	return res, nil
}

// RegionColor is one sampled swatch or spot.
type RegionColor struct {
	Index  int           `json:"index"`
	Role   string        `json:"role,omitempty"`
	Center imaging.Point `json:"center"`
	imaging.SampleSummary
	// NearestSwatch is the index of the swatch closest in CIEDE2000 distance.
	NearestSwatch *int `json:"nearest_swatch,omitempty"`
}

// SampleColorsResult is the card_sample_colors result.
type SampleColorsResult struct {
	Markers      detection.Arrangement `json:"markers"`
	SwatchRadius int                   `json:"swatch_radius"`
	SpotRadius   int                   `json:"spot_radius"`
	Swatches     []RegionColor         `json:"swatches"`
	Spots        []RegionColor         `json:"spots"`
	GreenSteps   []float64             `json:"green_steps"`
}

var spotRoles = []string{"negative_control", "test", "positive_control"}

func (s *Server) handleCardSampleColors(args json.RawMessage) (interface{}, error) {
	c, err := s.loadCard(args)
	if err != nil {
		return nil, err
	}
	cfg := c.analyzer.Config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	three, err := detection.Three(c.analyzer.Locate(c.buf))
	if err != nil {
		return nil, err
	}
	arr := detection.ArrangePatterns(three)
	t, err := calibrate.New(arr)
	if err != nil {
		return nil, err
	}

	res := &SampleColorsResult{
		Markers:      arr,
		SwatchRadius: cfg.Swatches.RadiusPixels(t),
		SpotRadius:   cfg.Spots.RadiusPixels(t),
	}

	swatchCenters := cfg.Swatches.Positions(t)
	swatches, err := imaging.SampleAll(imaging.DiscSampler{}, c.buf, swatchCenters, res.SwatchRadius)
	if err != nil {
		return nil, fmt.Errorf("swatches: %w", err)
	}
	spotCenters := cfg.Spots.Positions(t)
	spots, err := imaging.SampleAll(imaging.DiscSampler{}, c.buf, spotCenters, res.SpotRadius)
	if err != nil {
		return nil, fmt.Errorf("spots: %w", err)
	}

	for i, sw := range swatches {
		res.Swatches = append(res.Swatches, RegionColor{
			Index:         i,
			Center:        swatchCenters[i],
			SampleSummary: imaging.Summarize(sw),
		})
	}
	for i, sp := range spots {
		rc := RegionColor{
			Index:         i,
			Center:        spotCenters[i],
			SampleSummary: imaging.Summarize(sp),
		}
		if len(spots) == len(spotRoles) {
			rc.Role = spotRoles[i]
		}
		if n := sp.Nearest(swatches); n >= 0 {
			rc.NearestSwatch = &n
		}
		res.Spots = append(res.Spots, rc)
	}
	res.GreenSteps = classify.GreenSteps(swatches)
	return res, nil
}

type cardCropArgs struct {
	cardArgs
	Margin *int    `json:"margin,omitempty"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleCardCrop(args json.RawMessage) (interface{}, error) {
	var a cardCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	c, err := s.loadCard(args)
	if err != nil {
		return nil, err
	}
	three, err := detection.Three(c.analyzer.Locate(c.buf))
	if err != nil {
		return nil, err
	}

	margin := 0
	if a.Margin != nil {
		margin = *a.Margin
	} else {
		for _, p := range three {
			margin = max(margin, 4*p.ModuleSize)
		}
	}

	rect := imaging.BoundingBox(detection.ArrangePatterns(three).Points(), margin)
	return imaging.Crop(c.img, rect.Add(c.img.Bounds().Min), a.Scale)
}
