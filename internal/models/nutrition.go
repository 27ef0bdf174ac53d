package models

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// NutritionEntry is a single labelled nutrition value, e.g. {calories 250 kcal}.
type NutritionEntry struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
	Unit  string `bson:"unit,omitempty" json:"unit,omitempty"`
}

// NutritionList ensures nutrition fields can be decoded whether stored as an
// array of {label,value,unit} entries or as a legacy label-keyed document of
// {value,unit} subdocuments.
type NutritionList []NutritionEntry

type nutritionValue struct {
	Value string `bson:"value"`
	Unit  string `bson:"unit,omitempty"`
}

// UnmarshalBSONValue accepts both array and embedded-document BSON types,
// allowing legacy documents to be decoded without failing the entire request.
func (n *NutritionList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*n = nil
		return nil
	case bsontype.Array:
		var entries []NutritionEntry
		if err := bson.UnmarshalValue(t, data, &entries); err != nil {
			return err
		}
		*n = entries
		return nil
	case bsontype.EmbeddedDocument:
		var byLabel map[string]nutritionValue
		if err := bson.UnmarshalValue(t, data, &byLabel); err != nil {
			return err
		}

		entries := make([]NutritionEntry, 0, len(byLabel))
		for label, v := range byLabel {
			entries = append(entries, NutritionEntry{Label: label, Value: v.Value, Unit: v.Unit})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })
		*n = entries
		return nil
	default:
		return fmt.Errorf("cannot decode %s into NutritionList", t)
	}
}

// MarshalBSONValue always stores the list as an array, keeping new writes
// consistent even when legacy documents used the label-keyed shape.
func (n NutritionList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]NutritionEntry(n))
}
