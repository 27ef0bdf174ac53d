package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

type nutritionDoc struct {
	Nutrition NutritionList `bson:"nutrition"`
}

func TestNutritionListDecodesArrayShape(t *testing.T) {
	data, err := bson.Marshal(bson.M{
		"nutrition": bson.A{
			bson.M{"label": "calories", "value": "250", "unit": "kcal"},
			bson.M{"label": "protein", "value": "12", "unit": "g"},
		},
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc nutritionDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(doc.Nutrition) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(doc.Nutrition))
	}
	if doc.Nutrition[0].Label != "calories" || doc.Nutrition[0].Value != "250" {
		t.Fatalf("unexpected first entry: %+v", doc.Nutrition[0])
	}
}

func TestNutritionListDecodesLegacyLabelKeyedShape(t *testing.T) {
	data, err := bson.Marshal(bson.M{
		"nutrition": bson.M{
			"protein":  bson.M{"value": "12", "unit": "g"},
			"calories": bson.M{"value": "250", "unit": "kcal"},
		},
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc nutritionDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(doc.Nutrition) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(doc.Nutrition))
	}
	// Legacy shape has no order; entries come back sorted by label.
	if doc.Nutrition[0].Label != "calories" || doc.Nutrition[1].Label != "protein" {
		t.Fatalf("expected label-sorted entries, got %+v", doc.Nutrition)
	}
	if doc.Nutrition[0].Unit != "kcal" {
		t.Fatalf("unexpected unit: %+v", doc.Nutrition[0])
	}
}

func TestNutritionListDecodesNull(t *testing.T) {
	data, err := bson.Marshal(bson.M{"nutrition": nil})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc nutritionDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if doc.Nutrition != nil {
		t.Fatalf("expected nil nutrition, got %+v", doc.Nutrition)
	}
}

func TestNutritionListMarshalsAsArray(t *testing.T) {
	original := nutritionDoc{Nutrition: NutritionList{
		{Label: "fat", Value: "8", Unit: "g"},
	}}

	data, err := bson.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw struct {
		Nutrition bson.A `bson:"nutrition"`
	}
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatalf("expected array storage, got decode error: %v", err)
	}
	if len(raw.Nutrition) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(raw.Nutrition))
	}
}
