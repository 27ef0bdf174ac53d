package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestAmountDecodesJSONStringAndNumber(t *testing.T) {
	tests := []struct {
		body string
		want Amount
	}{
		{`{"amount":"2 cups"}`, "2 cups"},
		{`{"amount":3}`, "3"},
		{`{"amount":1.5}`, "1.5"},
	}
	for _, tt := range tests {
		var item struct {
			Amount Amount `json:"amount"`
		}
		if err := json.Unmarshal([]byte(tt.body), &item); err != nil {
			t.Fatalf("%s: unmarshal failed: %v", tt.body, err)
		}
		if item.Amount != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.body, tt.want, item.Amount)
		}
	}
}

func TestAmountRejectsNonScalarJSON(t *testing.T) {
	var item struct {
		Amount Amount `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount":{"value":2}}`), &item); err == nil {
		t.Fatal("expected object amount to be rejected")
	}
}

func TestAmountDecodesLegacyNumericBSON(t *testing.T) {
	tests := []struct {
		doc  bson.M
		want Amount
	}{
		{bson.M{"amount": "a pinch"}, "a pinch"},
		{bson.M{"amount": int32(4)}, "4"},
		{bson.M{"amount": int64(7)}, "7"},
		{bson.M{"amount": 2.5}, "2.5"},
		{bson.M{"amount": nil}, ""},
	}
	for _, tt := range tests {
		data, err := bson.Marshal(tt.doc)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var item struct {
			Amount Amount `bson:"amount"`
		}
		if err := bson.Unmarshal(data, &item); err != nil {
			t.Fatalf("%v: unmarshal failed: %v", tt.doc, err)
		}
		if item.Amount != tt.want {
			t.Fatalf("%v: expected %q, got %q", tt.doc, tt.want, item.Amount)
		}
	}
}
