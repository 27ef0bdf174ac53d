package handlers

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

/* =========================
   RECIPE QUERY BUILDER
========================= */

type recipeQueryParams struct {
	Page        int64
	Limit       int64
	Search      string
	Tags        []string
	Ingredients []string
	MatchType   string
	Category    string
	MaxSteps    int64
	SortBy      string
	Order       string
}

// recipeQuery is the store operation computed from the request: a filter plus
// sort/skip/limit directives. Sort is nil for natural (insertion) order.
type recipeQuery struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// sortableRecipeFields whitelists sort keys; anything else falls back to
// natural order.
var sortableRecipeFields = map[string]struct{}{
	"createdAt":     {},
	"title":         {},
	"averageRating": {},
	"reviewCount":   {},
	"prepTime":      {},
}

func parseRecipeQueryParams(query func(string) string, queryArray func(string) []string) recipeQueryParams {
	page, limit := parsePaginationParams(query("page"), query("limit"))

	var maxSteps int64
	if parsed, err := strconv.ParseInt(query("maxSteps"), 10, 64); err == nil && parsed > 0 {
		maxSteps = parsed
	}

	matchType := strings.TrimSpace(query("matchType"))
	if matchType != "any" {
		matchType = "all"
	}

	return recipeQueryParams{
		Page:        page,
		Limit:       limit,
		Search:      strings.TrimSpace(query("search")),
		Tags:        cleanTerms(queryArray("tags[]")),
		Ingredients: cleanTerms(queryArray("ingredients[]")),
		MatchType:   matchType,
		Category:    strings.TrimSpace(query("category")),
		MaxSteps:    maxSteps,
		SortBy:      strings.TrimSpace(query("sortBy")),
		Order:       strings.TrimSpace(query("order")),
	}
}

func cleanTerms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// buildRecipeQuery translates filter params into the Mongo query. The filter
// families (search, tags, ingredients, category, step count) combine with
// logical AND; tags and ingredients share the one matchType parameter.
func buildRecipeQuery(params recipeQueryParams) recipeQuery {
	filter := bson.M{}

	if params.Search != "" {
		filter["title"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	if len(params.Tags) > 0 {
		if params.MatchType == "any" {
			filter["tags"] = bson.M{"$in": params.Tags}
		} else {
			filter["tags"] = bson.M{"$all": params.Tags}
		}
	}

	if len(params.Ingredients) > 0 {
		// Ingredients are stored as a name-keyed map, so presence of an
		// ingredient is presence of its field.
		if params.MatchType == "any" {
			anyOf := make([]bson.M, 0, len(params.Ingredients))
			for _, name := range params.Ingredients {
				anyOf = append(anyOf, bson.M{"ingredients." + name: bson.M{"$exists": true}})
			}
			filter["$or"] = anyOf
		} else {
			for _, name := range params.Ingredients {
				filter["ingredients."+name] = bson.M{"$exists": true}
			}
		}
	}

	if params.Category != "" {
		filter["category"] = params.Category
	}

	if params.MaxSteps > 0 {
		filter["$expr"] = bson.M{
			"$lte": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$instructions", bson.A{}}}},
				params.MaxSteps,
			},
		}
	}

	var sort bson.D
	if _, ok := sortableRecipeFields[params.SortBy]; ok {
		direction := 1
		if params.Order == "desc" {
			direction = -1
		}
		sort = bson.D{{Key: params.SortBy, Value: direction}}
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}

	return recipeQuery{
		Filter: filter,
		Sort:   sort,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	}
}
