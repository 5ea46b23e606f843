package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the card photo",
	}
}

// scanProperties returns the optional scanner overrides shared by the card tools.
func scanProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"row_stride": map[string]interface{}{
			"type":        "integer",
			"description": "Scan every Nth row when looking for markers. Default 1",
			"minimum":     1,
		},
		"ratio_tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Allowed deviation of each marker run from its ideal length, as a fraction of the module size. Default 0.5",
		},
		"dedup_distance": map[string]interface{}{
			"type":        "number",
			"description": "Pixels within which two marker hits count as the same marker. Default 10",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a photo and return its dimensions and format. The decoded photo is cached for the card tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "card_analyze",
			Description: "Read a lateral-flow test card photo and return one result code: " +
				"POSITV, NEGITV or INCONC for a completed reading; BADFPS when the three corner markers were not found; " +
				"BADSWC when the reference swatches are unreadable; BADSMP, BADPOS or BADNEG when a control spot failed; " +
				"ERROR for a configuration problem. Also returns marker positions, sampling centers and sampled colors.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": scanProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "card_locate_markers",
			Description: "Find the square 1:1:3:1:1 corner markers on a card photo. Returns every accepted marker and, when exactly three are found, which is top-left, top-right and bottom-left.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": scanProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "card_sample_colors",
			Description: "Sample the six reference swatches and the three test spots of a card photo without classifying. Each color is reported as RGB, hex and HSL; each spot also names the closest swatch by CIEDE2000 distance.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": scanProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "card_crop",
			Description: "Crop a card photo to the region bounded by its three markers and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around the marker bounding box. Default 4 marker modules",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
