package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/failover"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// Reply languages.
const (
	LangEnglish    = "en"
	LangUrdu       = "ur"
	LangRomanUrdu  = "roman-ur"
	toolSearchCars = "search_cars"
	toolStats      = "get_market_stats"
)

const (
	matchScore  = 95
	matchReason = "Direct match from our database based on your requirements."
	noDesc      = "No description available"
	noMatchNote = "No listings matched this search. Do not describe, list or invent any cars; tell the user nothing matched and suggest broadening the search."
)

var apologies = map[string]string{
	LangEnglish:   "I apologize, I'm having trouble processing your request right now. Please try again.",
	LangUrdu:      "معذرت، میں ابھی آپ کی مدد نہیں کر سکا۔ براہ کرم دوبارہ کوشش کریں۔",
	LangRomanUrdu: "Maazrat, main abhi aap ki madad nahi kar saka. Baraye meharbani dobara koshish karein.",
}

var errEmptyReply = errors.New("model returned an empty reply")

// chatTools are the functions the assistant may call.
var chatTools = []ToolSpec{
	{
		Name:        toolSearchCars,
		Description: "Search active car listings by make, model, price range, year range, body type, transmission, fuel type or location.",
		Params: []ToolParam{
			{Name: "make", Type: "string", Description: "Brand, e.g. Toyota, Honda"},
			{Name: "model", Type: "string", Description: "Model, e.g. Civic, Corolla"},
			{Name: "minPrice", Type: "number", Description: "Minimum price in PKR"},
			{Name: "maxPrice", Type: "number", Description: "Maximum price in PKR"},
			{Name: "minYear", Type: "number", Description: "Minimum model year"},
			{Name: "maxYear", Type: "number", Description: "Maximum model year"},
			{Name: "bodyType", Type: "string", Description: "Sedan, SUV, Hatchback, ..."},
			{Name: "transmission", Type: "string", Description: "Automatic or Manual"},
			{Name: "fuelType", Type: "string", Description: "Petrol, Diesel, Hybrid, ..."},
			{Name: "location", Type: "string", Description: "City or area"},
		},
	},
	{
		Name:        toolStats,
		Description: "Get market statistics: total active listings, popular makes and available body types.",
	},
}

// ChatService turns a client-held transcript into one assistant reply.
type ChatService interface {
	// Reply never fails because of the model: when every model fails it returns
	// a localized apology. Only malformed input is reported as an error.
	Reply(ctx context.Context, messages []models.ChatMessage, preferredLanguage string) (models.ChatReply, error)
}

// ChatOptions bounds what is sent to the model.
type ChatOptions struct {
	HistoryLimit     int
	DescriptionChars int
}

type chatService struct {
	models   []LanguageModel
	listings ListingService
	opts     ChatOptions
}

// NewChatService wires the ordered model failover list and the listing service.
func NewChatService(languageModels []LanguageModel, listings ListingService, opts ChatOptions) ChatService {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}
	if opts.DescriptionChars <= 0 {
		opts.DescriptionChars = 200
	}
	return &chatService{models: languageModels, listings: listings, opts: opts}
}

// Reply runs one chat turn against each model in order until one answers.
func (s *chatService) Reply(ctx context.Context, messages []models.ChatMessage, preferredLanguage string) (models.ChatReply, error) {
	if len(messages) == 0 {
		return models.ChatReply{}, fmt.Errorf("%w: messages must not be empty", ErrValidation)
	}
	last := messages[len(messages)-1]
	if last.Role != models.RoleUser || strings.TrimSpace(last.Content) == "" {
		return models.ChatReply{}, fmt.Errorf("%w: last message must be a non-empty user message", ErrValidation)
	}

	lang := ResolveLanguage(preferredLanguage, last.Content)
	history := boundHistory(messages[:len(messages)-1], s.opts.HistoryLimit-1)
	system := systemPrompt(lang)

	reply, err := failover.Run(ctx, s.models, func(ctx context.Context, m LanguageModel) (models.ChatReply, error) {
		return s.attempt(ctx, m, system, history, last.Content)
	})
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Str("lang", lang).Msg("every chat model failed")
		return models.ChatReply{Message: Apology(lang), Recommendations: []models.Recommendation{}}, nil
	}
	return reply, nil
}

// attempt is one full tool-calling exchange with a single model.
func (s *chatService) attempt(ctx context.Context, m LanguageModel, system string, history []Turn, text string) (models.ChatReply, error) {
	logger := log.With().Str("component", "chat").Str("model", m.Name()).Logger()

	session := m.StartChat(system, chatTools, history)
	reply, err := session.Send(ctx, text)
	if err != nil {
		return models.ChatReply{}, err
	}

	var found []models.Car
	if len(reply.Calls) > 0 {
		results := make([]ToolResult, 0, len(reply.Calls))
		for _, call := range reply.Calls {
			logger.Debug().Str("tool", call.Name).Interface("args", call.Args).Msg("tool call")
			res, cars := s.runTool(ctx, call)
			found = append(found, cars...)
			results = append(results, res)
		}
		if reply, err = session.SendToolResults(ctx, results); err != nil {
			return models.ChatReply{}, err
		}
	}

	msg := strings.TrimSpace(reply.Text)
	if msg == "" {
		return models.ChatReply{}, errEmptyReply
	}
	return models.ChatReply{Message: msg, Recommendations: recommend(found)}, nil
}

// runTool executes one tool call. Tool failures are reported to the model as
// an empty result rather than aborting the exchange.
func (s *chatService) runTool(ctx context.Context, call ToolCall) (ToolResult, []models.Car) {
	logger := log.With().Str("component", "chat").Str("tool", call.Name).Logger()

	switch call.Name {
	case toolSearchCars:
		cars, err := s.listings.SearchForAssistant(ctx, CriteriaFromArgs(call.Args))
		if err != nil {
			logger.Warn().Err(err).Msg("search failed")
			cars = nil
		}
		summaries := make([]any, 0, len(cars))
		for _, c := range cars {
			summaries = append(summaries, summarize(c, s.opts.DescriptionChars))
		}
		resp := map[string]any{"cars": summaries}
		if len(cars) == 0 {
			resp["note"] = noMatchNote
		}
		return ToolResult{Name: call.Name, Response: resp}, cars

	case toolStats:
		stats, err := s.listings.MarketStats(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("stats failed")
			return ToolResult{Name: call.Name, Response: map[string]any{}}, nil
		}
		return ToolResult{Name: call.Name, Response: map[string]any{
			"totalCars":          stats.TotalCars,
			"popularMakes":       toAny(stats.PopularMakes),
			"availableBodyTypes": toAny(stats.AvailableBodyTypes),
		}}, nil

	default:
		logger.Warn().Msg("unknown tool")
		return ToolResult{Name: call.Name, Response: map[string]any{"error": "unknown tool " + call.Name}}, nil
	}
}

// summarize trims a listing to the fields the model may describe.
func summarize(c models.Car, descChars int) map[string]any {
	desc := noDesc
	if c.Description != "" {
		desc = truncateRunes(c.Description, descChars)
	}
	return map[string]any{
		"id":           c.ID.Hex(),
		"title":        c.Title,
		"make":         c.Make,
		"model":        c.Model,
		"year":         c.Year,
		"price":        c.Price,
		"location":     c.Location,
		"mileage":      c.Mileage,
		"transmission": c.Transmission,
		"fuelType":     c.FuelType,
		"features":     toAny(c.Features),
		"description":  desc,
	}
}

// recommend annotates every fetched listing once, in the order found.
func recommend(cars []models.Car) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(cars))
	seen := make(map[string]bool, len(cars))
	for _, c := range cars {
		key := c.ID.Hex()
		if !c.ID.IsZero() && seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.Recommendation{
			Car:           c,
			Compatibility: models.MatchNote{Score: matchScore, Reason: matchReason},
		})
	}
	return out
}

// boundHistory keeps at most limit prior messages, starting at a user turn.
func boundHistory(msgs []models.ChatMessage, limit int) []Turn {
	if limit < 0 {
		limit = 0
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	for len(msgs) > 0 && msgs[0].Role != models.RoleUser {
		msgs = msgs[1:]
	}
	out := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, Turn{FromUser: m.Role == models.RoleUser, Text: m.Content})
	}
	return out
}

// ---- tool arguments --------------------------------------------------------

// CriteriaFromArgs reads search_cars arguments leniently: numbers may arrive as
// floats, integers or numeric strings; non-positive or unparseable numbers are dropped.
func CriteriaFromArgs(args map[string]any) models.SearchCriteria {
	return models.SearchCriteria{
		Make:         argString(args, "make"),
		Model:        argString(args, "model"),
		BodyType:     argString(args, "bodyType"),
		Transmission: argString(args, "transmission"),
		FuelType:     argString(args, "fuelType"),
		Location:     argString(args, "location"),
		MinPrice:     argNumber(args, "minPrice"),
		MaxPrice:     argNumber(args, "maxPrice"),
		MinYear:      argNumber(args, "minYear"),
		MaxYear:      argNumber(args, "maxYear"),
	}
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func argNumber(args map[string]any, key string) *int64 {
	var f float64
	switch v := args[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		if v <= 0 {
			return nil
		}
		return &v
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return nil
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return nil
		}
	default:
		return nil
	}
	// NaN, infinities and values beyond int64 are treated as unparseable.
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return nil
	}
	n := int64(f)
	if n <= 0 {
		return nil
	}
	return &n
}

// ---- language --------------------------------------------------------------

var romanUrduWords = map[string]bool{
	"hai": true, "hain": true, "mujhe": true, "chahiye": true, "gari": true, "gaari": true,
	"gaadi": true, "kitni": true, "kitne": true, "kya": true, "mein": true, "nahi": true,
	"aur": true, "wali": true, "wala": true, "acha": true, "achi": true, "batao": true,
	"dikhao": true, "se": true, "ke": true, "ki": true, "ka": true, "tak": true,
}

// ResolveLanguage picks the reply language: an explicit known preference wins,
// otherwise the language is detected from text.
func ResolveLanguage(preferred, text string) string {
	switch strings.ToLower(strings.TrimSpace(preferred)) {
	case LangUrdu:
		return LangUrdu
	case LangRomanUrdu:
		return LangRomanUrdu
	case LangEnglish:
		return LangEnglish
	}
	return DetectLanguage(text)
}

// DetectLanguage classifies text as Urdu script, Roman Urdu or English.
func DetectLanguage(text string) string {
	for _, r := range text {
		if unicode.In(r, unicode.Arabic) {
			return LangUrdu
		}
	}
	hits := 0
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if romanUrduWords[w] {
			hits++
		}
	}
	if hits >= 2 {
		return LangRomanUrdu
	}
	return LangEnglish
}

// Apology is the canned reply used when no model could answer.
func Apology(lang string) string {
	if msg, ok := apologies[lang]; ok {
		return msg
	}
	return apologies[LangEnglish]
}

func systemPrompt(lang string) string {
	fallback := "English"
	switch lang {
	case LangUrdu:
		fallback = "Urdu (Urdu script)"
	case LangRomanUrdu:
		fallback = "Roman Urdu"
	}
	return `You are 'AutoMarket Expert', a professional Pakistani automobile consultant helping buyers find a car quickly.

Rules:
1. When the user gives concrete criteria (a make, model, year or budget such as "under 30 lakh"), call search_cars right away.
2. Only describe cars returned by search_cars. Never mention a car that is not in the tool output.
3. Use exactly the price, location, mileage and features from the tool output. Never add a feature that is not in a car's features list.
4. If a search returns no cars, say so plainly and suggest widening the year or price range. Never invent sample listings.
5. Reply in the user's language: English for English, Roman Urdu for Roman Urdu, Urdu script for Urdu script. If unsure, reply in ` + fallback + `.
6. Do not list the same cars again; if you already listed them, ask which one the user wants details on.
7. Stay polite and concise.`
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
