package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"nutrition-tracker-system/models"

	"cloud.google.com/go/vertexai/genai"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// Classifier turns a meal photo into a structured nutrition estimate.
type Classifier interface {
	AnalyzeImage(ctx context.Context, imageData []byte) (*models.FoodAnalysis, error)
}

const defaultGeminiModel = "gemini-2.0-flash"

const defaultPortionGrams = 150.0

// confidenceScores maps the model's qualitative confidence to the numeric
// scale stored on entries.
var confidenceScores = map[string]float64{
	"high":   0.9,
	"medium": 0.65,
	"low":    0.35,
}

const visionPrompt = `You are an expert nutritionist specializing in Indian cuisine. Analyze the food image and provide detailed nutritional information.

Focus on identifying Indian dishes, regional specialties, and traditional cooking methods that affect nutritional content. Consider cooking oil, ghee, and traditional preparation.

Return ONLY a valid JSON object with this exact structure:
{
  "food_name": "Name of the dish",
  "calories_per_100g": 150.0,
  "protein_per_100g": 8.5,
  "carbs_per_100g": 20.0,
  "fat_per_100g": 5.0,
  "estimated_portion_g": 200.0,
  "confidence": "high/medium/low",
  "notes": "Brief explanation of identification and portion estimation"
}`

// GeminiClassifier calls Vertex AI to identify a dish and estimate its
// macros per 100g.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
	titler cases.Caser
}

// NewGeminiClassifier builds the Vertex AI client from GOOGLE_PROJECT_ID,
// GOOGLE_LOCATION and GOOGLE_CREDENTIALS_FILE. The caller decides whether
// a missing project means "disabled" or "fatal".
func NewGeminiClassifier(ctx context.Context) (*GeminiClassifier, error) {
	projectID := os.Getenv("GOOGLE_PROJECT_ID")
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_PROJECT_ID is not set")
	}
	location := os.Getenv("GOOGLE_LOCATION")
	if location == "" {
		location = "us-central1"
	}

	opts := []option.ClientOption{}
	if credFile := os.Getenv("GOOGLE_CREDENTIALS_FILE"); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	modelName := os.Getenv("GEMINI_MODEL")
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	return &GeminiClassifier{
		client: client,
		model:  client.GenerativeModel(modelName),
		titler: cases.Title(language.English),
	}, nil
}

func (g *GeminiClassifier) Close() error {
	return g.client.Close()
}

func (g *GeminiClassifier) AnalyzeImage(ctx context.Context, imageData []byte) (*models.FoodAnalysis, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(visionPrompt), genai.ImageData("jpeg", imageData))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	raw := stripJSONFence(sb.String())

	var out struct {
		FoodName        string  `json:"food_name"`
		CaloriesPer100g float64 `json:"calories_per_100g"`
		ProteinPer100g  float64 `json:"protein_per_100g"`
		CarbsPer100g    float64 `json:"carbs_per_100g"`
		FatPer100g      float64 `json:"fat_per_100g"`
		PortionGrams    float64 `json:"estimated_portion_g"`
		Confidence      string  `json:"confidence"`
		Notes           string  `json:"notes"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse model response: %w while parsing %q", err, raw)
	}
	if out.FoodName == "" {
		return nil, fmt.Errorf("model response missing food_name")
	}

	analysis := &models.FoodAnalysis{
		FoodName:        g.titler.String(out.FoodName),
		CaloriesPer100g: clampNonNegative(out.CaloriesPer100g),
		ProteinPer100g:  clampNonNegative(out.ProteinPer100g),
		CarbsPer100g:    clampNonNegative(out.CarbsPer100g),
		FatPer100g:      clampNonNegative(out.FatPer100g),
		PortionGrams:    out.PortionGrams,
		Confidence:      scoreForConfidence(out.Confidence),
		Notes:           out.Notes,
	}
	if analysis.PortionGrams <= 0 {
		analysis.PortionGrams = defaultPortionGrams
	}
	return analysis, nil
}

// stripJSONFence removes the markdown code fence Gemini wraps JSON answers in.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func scoreForConfidence(word string) float64 {
	if score, ok := confidenceScores[strings.ToLower(strings.TrimSpace(word))]; ok {
		return score
	}
	return confidenceScores["medium"]
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// FallbackAnalysis is the estimate served when no classifier is configured
// or the model call fails: a generic dish at conservative macros, flagged
// low confidence so the client can prompt for manual correction.
func FallbackAnalysis(notes string) *models.FoodAnalysis {
	return &models.FoodAnalysis{
		FoodName:        "Unknown Dish",
		CaloriesPer100g: 200.0,
		ProteinPer100g:  10.0,
		CarbsPer100g:    25.0,
		FatPer100g:      8.0,
		PortionGrams:    defaultPortionGrams,
		Confidence:      confidenceScores["low"],
		Notes:           notes,
	}
}
