package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// AnalysisService produces macro estimates for a described or photographed
// meal. The estimation itself is a stub: photos only go through Rekognition
// to name what is on the plate, and the numbers come from a small heuristic
// table keyed on words in the description.
type AnalysisService struct {
	client *rekognition.Client
}

func NewAnalysisService() (*AnalysisService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &AnalysisService{client: rekognition.NewFromConfig(cfg)}, nil
}

type macroProfile struct {
	calories, protein, carbs, fat, fiber, sugar, sodium float64
}

// Rough per-serving values for common foods. Placeholder until a real
// inference provider is plugged in.
var keywordProfiles = map[string]macroProfile{
	"bread":    {80, 3, 15, 1, 1.1, 1.5, 150},
	"broccoli": {55, 3.7, 11, 0.6, 5.1, 2.2, 33},
	"burger":   {540, 25, 40, 29, 2, 8, 950},
	"chicken":  {231, 43, 0, 5, 0, 0, 104},
	"egg":      {78, 6.3, 0.6, 5.3, 0, 0.6, 62},
	"oatmeal":  {158, 6, 27, 3.2, 4, 1.1, 115},
	"pasta":    {220, 8.1, 43, 1.3, 2.5, 0.8, 1},
	"pizza":    {285, 12, 36, 10, 2.5, 3.8, 640},
	"rice":     {206, 4.3, 44.5, 0.4, 0.6, 0.1, 2},
	"salad":    {33, 2.7, 6.3, 0.4, 2.1, 2.8, 48},
	"salmon":   {208, 20, 0, 13, 0, 0, 59},
	"sandwich": {361, 19, 34, 16, 2.3, 5, 1260},
	"smoothie": {210, 4, 45, 2, 5, 32, 60},
	"steak":    {271, 25, 0, 19, 0, 0, 58},
	"yogurt":   {100, 10, 6, 4, 0, 6, 46},
}

var defaultProfile = macroProfile{350, 18, 35, 14, 4, 8, 520}

// EstimateFromText returns a mocked estimate for a described meal. Matching
// keywords accumulate; an unrecognized description gets a generic meal.
func (a *AnalysisService) EstimateFromText(description string) (*MealAnalysisResult, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return nil, errors.New("meal description is required")
	}

	keywords := make([]string, 0, len(keywordProfiles))
	for kw := range keywordProfiles {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	lower := strings.ToLower(desc)
	var total macroProfile
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			p := keywordProfiles[kw]
			total.calories += p.calories
			total.protein += p.protein
			total.carbs += p.carbs
			total.fat += p.fat
			total.fiber += p.fiber
			total.sugar += p.sugar
			total.sodium += p.sodium
			matched = append(matched, kw)
		}
	}

	name := mealName(desc, matched)
	if len(matched) == 0 {
		total = defaultProfile
	}

	return &MealAnalysisResult{
		MealName:    name,
		Calories:    total.calories,
		Protein:     total.protein,
		Carbs:       total.carbs,
		Fat:         total.fat,
		Fiber:       total.fiber,
		Sugar:       total.sugar,
		Sodium:      total.sodium,
		Description: desc,
	}, nil
}

// EstimateFromPhoto detects labels on the image and feeds them through the
// text estimator, so photo and text commits behave identically downstream.
func (a *AnalysisService) EstimateFromPhoto(base64Img string) (*MealAnalysisResult, error) {
	labels, err := a.recognizeLabels(base64Img)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, errors.New("no food detected in photo")
	}

	est, err := a.EstimateFromText(strings.Join(labels, ", "))
	if err != nil {
		return nil, err
	}
	est.MealName = labels[0]
	est.Description = fmt.Sprintf("Estimated from photo labels: %s", strings.Join(labels, ", "))
	return est, nil
}

// decodeImageDataURI extracts the raw bytes from a data:image/...;base64 URI.
// The media type only matters up to the comma, so jpeg and png payloads both
// decode the same way.
func decodeImageDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:image") {
		return nil, errors.New("invalid data URI")
	}
	parts := strings.SplitN(uri, ",", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid data URI")
	}
	return base64.StdEncoding.DecodeString(parts[1])
}

// recognizeLabels returns the top labels for a base64-encoded image
func (a *AnalysisService) recognizeLabels(base64Img string) ([]string, error) {
	data, err := decodeImageDataURI(base64Img)
	if err != nil {
		return nil, err
	}

	out, err := a.client.DetectLabels(context.TODO(), &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.Labels {
		labels = append(labels, *l.Name)
	}
	return labels, nil
}

func mealName(desc string, matched []string) string {
	if len(matched) == 0 {
		words := strings.Fields(desc)
		if len(words) > 5 {
			words = words[:5]
		}
		return strings.Join(words, " ")
	}

	parts := make([]string, len(matched))
	for i, kw := range matched {
		parts[i] = strings.ToUpper(kw[:1]) + kw[1:]
	}
	return strings.Join(parts, " & ")
}
