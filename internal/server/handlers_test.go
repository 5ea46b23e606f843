package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ironsheep/lateral-flow-mcp/internal/cardtest"
)

// writeCard renders a synthetic card photo and returns its path
func writeCard(t *testing.T, c cardtest.Card) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "card.png")
	if err := c.WritePNG(path); err != nil {
		t.Fatalf("failed to write card: %v", err)
	}
	return path
}

// createTestImageFile creates a plain test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "blank.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request through the request router
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolResult decodes the JSON text content of a successful tool response
func toolResult(t *testing.T, resp *MCPResponse) map[string]interface{} {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %#v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
	return out
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	out := toolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}))

	if out["width"] != 100.0 || out["height"] != 80.0 {
		t.Errorf("dimensions: got %vx%v, want 100x80", out["width"], out["height"])
	}
	if out["format"] != "png" {
		t.Errorf("format: got %v, want png", out["format"])
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache Len: got %d, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	for _, tool := range []string{"image_load", "card_analyze", "card_locate_markers", "card_sample_colors", "card_crop"} {
		t.Run(tool, func(t *testing.T) {
			resp := callTool(t, s, tool, map[string]interface{}{"path": "/nonexistent/card.png"})
			if resp.Error == nil {
				t.Fatal("expected an error for a missing file")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New()

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "unknown tool") {
		t.Errorf("Error data: got %v", resp.Error.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`invalid json`),
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_CardAnalyze(t *testing.T) {
	card := cardtest.Upright()

	tests := []struct {
		name       string
		card       cardtest.Card
		wantCode   string
		wantCat    string
		conclusive bool
		retake     bool
		freshCard  bool
	}{
		{"positive", card, "POSITV", "result", true, false, false},
		{"negative", card.WithSpots(190, 205, 250), "NEGITV", "result", true, false, false},
		{"inconclusive", card.WithSpots(190, 215, 250), "INCONC", "result", false, false, true},
		{"bad negative control", card.WithSpots(200, 230, 250), "BADNEG", "sample", false, false, true},
		{"uneven swatches", card.WithSwatches(185, 186, 213, 227, 241, 255), "BADSWC", "calibration", false, true, false},
		{"missing marker", card.WithMarkers(card.Frame.TopLeft, card.Frame.TopRight), "BADFPS", "detection", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			path := writeCard(t, tt.card)

			out := toolResult(t, callTool(t, s, "card_analyze", map[string]interface{}{"path": path}))

			if out["code"] != tt.wantCode {
				t.Errorf("code: got %v, want %s (error %v)", out["code"], tt.wantCode, out["error"])
			}
			if out["category"] != tt.wantCat {
				t.Errorf("category: got %v, want %s", out["category"], tt.wantCat)
			}
			if out["conclusive"] != tt.conclusive {
				t.Errorf("conclusive: got %v, want %v", out["conclusive"], tt.conclusive)
			}
			if out["retake_photo"] != tt.retake {
				t.Errorf("retake_photo: got %v, want %v", out["retake_photo"], tt.retake)
			}
			if out["fresh_card"] != tt.freshCard {
				t.Errorf("fresh_card: got %v, want %v", out["fresh_card"], tt.freshCard)
			}
			if out["path"] != path {
				t.Errorf("path: got %v, want %s", out["path"], path)
			}
		})
	}
}

func TestHandleToolsCall_CardAnalyze_Report(t *testing.T) {
	s := New()
	path := writeCard(t, cardtest.Upright())

	out := toolResult(t, callTool(t, s, "card_analyze", map[string]interface{}{"path": path}))

	id, _ := out["analysis_id"].(string)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("analysis_id %q is not a UUID: %v", id, err)
	}

	markers, ok := out["markers"].(map[string]interface{})
	if !ok {
		t.Fatalf("markers: got %#v", out["markers"])
	}
	tl := markers["top_left"].(map[string]interface{})
	if tl["x"] != 60.0 || tl["y"] != 60.0 {
		t.Errorf("top_left: got %v, want (60,60)", tl)
	}

	swatches, _ := out["swatches"].([]interface{})
	spots, _ := out["spots"].([]interface{})
	if len(swatches) != 6 || len(spots) != 3 {
		t.Errorf("samples: got %d swatches and %d spots, want 6 and 3", len(swatches), len(spots))
	}

	again := toolResult(t, callTool(t, s, "card_analyze", map[string]interface{}{"path": path}))
	if again["analysis_id"] == out["analysis_id"] {
		t.Error("each analysis should get its own id")
	}
}

func TestHandleToolsCall_CardAnalyze_BlankPhoto(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 200, 100, color.White)

	out := toolResult(t, callTool(t, s, "card_analyze", map[string]interface{}{"path": path}))

	if out["code"] != "BADFPS" {
		t.Errorf("code: got %v, want BADFPS", out["code"])
	}
	if _, ok := out["error"].(string); !ok {
		t.Error("a failed analysis should explain itself")
	}
}

func TestHandleToolsCall_CardAnalyze_Overrides(t *testing.T) {
	s := New()
	path := writeCard(t, cardtest.Upright())

	tests := []struct {
		name     string
		args     map[string]interface{}
		wantCode string
	}{
		{"row stride 2", map[string]interface{}{"row_stride": 2}, "POSITV"},
		{"invalid row stride", map[string]interface{}{"row_stride": 0}, "ERROR"},
		{"invalid tolerance", map[string]interface{}{"ratio_tolerance": 0}, "ERROR"},
		{"tight tolerance", map[string]interface{}{"ratio_tolerance": 0.01}, "BADFPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = path
			out := toolResult(t, callTool(t, s, "card_analyze", tt.args))
			if out["code"] != tt.wantCode {
				t.Errorf("code: got %v, want %s (error %v)", out["code"], tt.wantCode, out["error"])
			}
		})
	}

	// Overrides apply to one call only
	out := toolResult(t, callTool(t, s, "card_analyze", map[string]interface{}{"path": path}))
	if out["code"] != "POSITV" {
		t.Errorf("code after overrides: got %v, want POSITV", out["code"])
	}
}

func TestHandleToolsCall_CardLocateMarkers(t *testing.T) {
	s := New()
	path := writeCard(t, cardtest.Upright())

	out := toolResult(t, callTool(t, s, "card_locate_markers", map[string]interface{}{"path": path}))

	if out["count"] != 3.0 {
		t.Fatalf("count: got %v, want 3", out["count"])
	}
	patterns := out["patterns"].([]interface{})
	first := patterns[0].(map[string]interface{})
	if first["module_size"] != 5.0 {
		t.Errorf("module_size: got %v, want 5", first["module_size"])
	}

	markers, ok := out["markers"].(map[string]interface{})
	if !ok {
		t.Fatal("markers should be reported when three are found")
	}
	bl := markers["bottom_left"].(map[string]interface{})
	if bl["x"] != 60.0 || bl["y"] != 220.0 {
		t.Errorf("bottom_left: got %v, want (60,220)", bl)
	}
}

func TestHandleToolsCall_CardLocateMarkers_Partial(t *testing.T) {
	s := New()
	card := cardtest.Upright()
	path := writeCard(t, card.WithMarkers(card.Frame.TopLeft, card.Frame.TopRight))

	out := toolResult(t, callTool(t, s, "card_locate_markers", map[string]interface{}{"path": path}))

	if out["count"] != 2.0 {
		t.Errorf("count: got %v, want 2", out["count"])
	}
	if _, ok := out["markers"]; ok {
		t.Error("markers should be omitted unless exactly three are found")
	}
}

func TestHandleToolsCall_CardLocateMarkers_Blank(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 50, 50, color.White)

	out := toolResult(t, callTool(t, s, "card_locate_markers", map[string]interface{}{"path": path}))

	if out["count"] != 0.0 {
		t.Errorf("count: got %v, want 0", out["count"])
	}
	if patterns, ok := out["patterns"].([]interface{}); !ok || len(patterns) != 0 {
		t.Errorf("patterns: got %#v, want empty list", out["patterns"])
	}
}

func TestHandleToolsCall_CardLocateMarkers_InvalidOverride(t *testing.T) {
	s := New()
	path := writeCard(t, cardtest.Upright())

	resp := callTool(t, s, "card_locate_markers", map[string]interface{}{"path": path, "dedup_distance": -1})
	if resp.Error == nil {
		t.Fatal("expected an error for a negative dedup distance")
	}
}

func TestHandleToolsCall_CardSampleColors(t *testing.T) {
	s := New()
	path := writeCard(t, cardtest.Upright())

	out := toolResult(t, callTool(t, s, "card_sample_colors", map[string]interface{}{"path": path}))

	if out["swatch_radius"] != 14.0 || out["spot_radius"] != 19.0 {
		t.Errorf("radii: got %v/%v, want 14/19", out["swatch_radius"], out["spot_radius"])
	}

	swatches := out["swatches"].([]interface{})
	if len(swatches) != 6 {
		t.Fatalf("swatches: got %d, want 6", len(swatches))
	}
	first := swatches[0].(map[string]interface{})
	if first["hex"] != "#ffb9a5" {
		t.Errorf("swatch 0 hex: got %v, want #ffb9a5", first["hex"])
	}

	spots := out["spots"].([]interface{})
	if len(spots) != 3 {
		t.Fatalf("spots: got %d, want 3", len(spots))
	}
	wantRoles := []string{"negative_control", "test", "positive_control"}
	for i, sp := range spots {
		m := sp.(map[string]interface{})
		if m["role"] != wantRoles[i] {
			t.Errorf("spot %d role: got %v, want %s", i, m["role"], wantRoles[i])
		}
		if _, ok := m["nearest_swatch"]; !ok {
			t.Errorf("spot %d: missing nearest_swatch", i)
		}
	}

	// The positive control is painted in the same green as the last swatch
	if n := spots[2].(map[string]interface{})["nearest_swatch"]; n != 5.0 {
		t.Errorf("positive control nearest swatch: got %v, want 5", n)
	}

	steps := out["green_steps"].([]interface{})
	if len(steps) != 5 {
		t.Fatalf("green_steps: got %d, want 5", len(steps))
	}
	for i, st := range steps {
		if st != 14.0 {
			t.Errorf("green step %d: got %v, want 14", i, st)
		}
	}
}

func TestHandleToolsCall_CardSampleColors_NoMarkers(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 100, 100, color.White)

	resp := callTool(t, s, "card_sample_colors", map[string]interface{}{"path": path})
	if resp.Error == nil {
		t.Fatal("expected an error without markers")
	}
}

func TestHandleToolsCall_CardCrop(t *testing.T) {
	s := New()
	path := writeCard(t, cardtest.Upright())

	tests := []struct {
		name          string
		args          map[string]interface{}
		wantW, wantH float64
	}{
		// Markers span (60,60)-(560,220); the default margin is 4 modules of 5 pixels
		{"default margin", map[string]interface{}{}, 541, 201},
		{"no margin", map[string]interface{}{"margin": 0}, 501, 161},
		{"margin clipped", map[string]interface{}{"margin": 100}, 620, 280},
		{"scaled", map[string]interface{}{"margin": 0, "scale": 0.5}, 250, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = path
			out := toolResult(t, callTool(t, s, "card_crop", tt.args))

			if out["width"] != tt.wantW || out["height"] != tt.wantH {
				t.Errorf("dimensions: got %vx%v, want %vx%v", out["width"], out["height"], tt.wantW, tt.wantH)
			}
			if out["mime_type"] != "image/png" {
				t.Errorf("mime_type: got %v", out["mime_type"])
			}
			if s, _ := out["image_base64"].(string); s == "" {
				t.Error("image_base64 is empty")
			}
		})
	}
}

func TestHandleToolsCall_CardCrop_NoMarkers(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 100, 100, color.White)

	resp := callTool(t, s, "card_crop", map[string]interface{}{"path": path})
	if resp.Error == nil {
		t.Fatal("expected an error without markers")
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()
	_, err := s.executeTool("unknown_tool", nil)
	if err == nil {
		t.Error("Expected error for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	for _, tool := range []string{"image_load", "card_analyze", "card_locate_markers", "card_sample_colors", "card_crop"} {
		t.Run(tool, func(t *testing.T) {
			if _, err := s.executeTool(tool, json.RawMessage(`{invalid}`)); err == nil {
				t.Error("Expected error for invalid JSON")
			}
		})
	}
}
