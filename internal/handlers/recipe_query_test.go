package handlers

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildRecipeQuerySkipFollowsPageAndLimit(t *testing.T) {
	tests := []struct {
		page, limit, wantSkip int64
	}{
		{1, 20, 0},
		{2, 20, 20},
		{3, 10, 20},
		{7, 5, 30},
	}
	for _, tt := range tests {
		query := buildRecipeQuery(recipeQueryParams{Page: tt.page, Limit: tt.limit})
		if query.Skip != tt.wantSkip {
			t.Fatalf("page=%d limit=%d: expected skip %d, got %d", tt.page, tt.limit, tt.wantSkip, query.Skip)
		}
		if query.Limit != tt.limit {
			t.Fatalf("page=%d limit=%d: expected limit %d, got %d", tt.page, tt.limit, tt.limit, query.Limit)
		}
	}
}

func TestBuildRecipeQueryInvalidPagingFallsBackToDefaults(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{Page: 0, Limit: -3})
	if query.Skip != 0 {
		t.Fatalf("expected skip 0, got %d", query.Skip)
	}
	if query.Limit != defaultPageLimit {
		t.Fatalf("expected default limit %d, got %d", defaultPageLimit, query.Limit)
	}
}

func TestParseRecipeQueryParamsNonNumericFallsBack(t *testing.T) {
	values := map[string]string{"page": "abc", "limit": "-1", "maxSteps": "zero"}
	params := parseRecipeQueryParams(
		func(key string) string { return values[key] },
		func(string) []string { return nil },
	)
	if params.Page != 1 || params.Limit != defaultPageLimit {
		t.Fatalf("expected defaults, got page=%d limit=%d", params.Page, params.Limit)
	}
	if params.MaxSteps != 0 {
		t.Fatalf("expected maxSteps 0, got %d", params.MaxSteps)
	}
	if params.MatchType != "all" {
		t.Fatalf("expected matchType all, got %q", params.MatchType)
	}
}

func TestBuildRecipeQuerySearchIsCaseInsensitiveTitleMatch(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{Search: "lasagna"})

	title, ok := query.Filter["title"].(bson.M)
	if !ok {
		t.Fatalf("expected title filter, got %v", query.Filter)
	}
	if title["$regex"] != "lasagna" || title["$options"] != "i" {
		t.Fatalf("expected case-insensitive regex filter, got %v", title)
	}
}

func TestBuildRecipeQueryTagsMatchAll(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{Tags: []string{"vegan", "quick"}, MatchType: "all"})

	want := bson.M{"$all": []string{"vegan", "quick"}}
	if !reflect.DeepEqual(query.Filter["tags"], want) {
		t.Fatalf("expected %v, got %v", want, query.Filter["tags"])
	}
}

func TestBuildRecipeQueryTagsMatchAny(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{Tags: []string{"vegan", "quick"}, MatchType: "any"})

	want := bson.M{"$in": []string{"vegan", "quick"}}
	if !reflect.DeepEqual(query.Filter["tags"], want) {
		t.Fatalf("expected %v, got %v", want, query.Filter["tags"])
	}
}

func TestBuildRecipeQueryIngredientsMatchAll(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{Ingredients: []string{"flour", "salt"}, MatchType: "all"})

	for _, name := range []string{"flour", "salt"} {
		condition, ok := query.Filter["ingredients."+name].(bson.M)
		if !ok {
			t.Fatalf("expected presence filter for %s, got %v", name, query.Filter)
		}
		if condition["$exists"] != true {
			t.Fatalf("expected $exists filter for %s, got %v", name, condition)
		}
	}
}

func TestBuildRecipeQueryIngredientsMatchAny(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{Ingredients: []string{"flour", "salt"}, MatchType: "any"})

	anyOf, ok := query.Filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or filter, got %v", query.Filter)
	}
	if len(anyOf) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(anyOf))
	}
}

func TestBuildRecipeQueryFamiliesCombineWithAnd(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{
		Search:      "pie",
		Tags:        []string{"dessert"},
		Ingredients: []string{"apple"},
		Category:    "Baking",
		MatchType:   "all",
	})

	for _, key := range []string{"title", "tags", "ingredients.apple", "category"} {
		if _, ok := query.Filter[key]; !ok {
			t.Fatalf("expected filter key %s to be present, got %v", key, query.Filter)
		}
	}
}

func TestBuildRecipeQuerySharedMatchTypeCouplesTagsAndIngredients(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{
		Tags:        []string{"vegan"},
		Ingredients: []string{"tofu"},
		MatchType:   "any",
	})

	if _, ok := query.Filter["tags"].(bson.M)["$in"]; !ok {
		t.Fatalf("expected tags to use $in under matchType=any, got %v", query.Filter["tags"])
	}
	if _, ok := query.Filter["$or"]; !ok {
		t.Fatalf("expected ingredients to use $or under matchType=any, got %v", query.Filter)
	}
}

func TestBuildRecipeQuerySortWhitelist(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{SortBy: "averageRating", Order: "desc"})
	if len(query.Sort) != 1 || query.Sort[0].Key != "averageRating" || query.Sort[0].Value != -1 {
		t.Fatalf("expected averageRating desc sort, got %v", query.Sort)
	}

	query = buildRecipeQuery(recipeQueryParams{SortBy: "title", Order: "asc"})
	if len(query.Sort) != 1 || query.Sort[0].Value != 1 {
		t.Fatalf("expected title asc sort, got %v", query.Sort)
	}
}

func TestBuildRecipeQueryUnknownSortFallsBackToNatural(t *testing.T) {
	for _, sortBy := range []string{"natural", "password", ""} {
		query := buildRecipeQuery(recipeQueryParams{SortBy: sortBy, Order: "desc"})
		if query.Sort != nil {
			t.Fatalf("sortBy=%q: expected natural order (nil sort), got %v", sortBy, query.Sort)
		}
	}
}

func TestBuildRecipeQueryMaxStepsFilter(t *testing.T) {
	query := buildRecipeQuery(recipeQueryParams{MaxSteps: 5})
	if _, ok := query.Filter["$expr"]; !ok {
		t.Fatalf("expected $expr step-count filter, got %v", query.Filter)
	}

	query = buildRecipeQuery(recipeQueryParams{})
	if _, ok := query.Filter["$expr"]; ok {
		t.Fatal("expected no step-count filter when maxSteps is unset")
	}
}
