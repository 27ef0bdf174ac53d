package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Amount ensures item amounts can be decoded whether clients sent a free-form
// string ("2 cups") or a bare number (3).
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*a = Amount(asString)
		return nil
	}

	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*a = Amount(strconv.FormatFloat(asNumber, 'f', -1, 64))
		return nil
	}

	return fmt.Errorf("cannot decode %s into Amount", string(data))
}

// UnmarshalBSONValue accepts string, int and double BSON types so legacy
// documents with numeric amounts still decode.
func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*a = ""
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*a = Amount(value)
		return nil
	case bsontype.Int32:
		var value int32
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*a = Amount(strconv.FormatInt(int64(value), 10))
		return nil
	case bsontype.Int64:
		var value int64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*a = Amount(strconv.FormatInt(value, 10))
		return nil
	case bsontype.Double:
		var value float64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*a = Amount(strconv.FormatFloat(value, 'f', -1, 64))
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Amount", t)
	}
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(a))
}

// ShoppingItem is embedded in its list and identified by its position, not by
// a stable id. Index-addressed removal and replacement operate on the whole
// items array.
type ShoppingItem struct {
	IngredientName string    `bson:"ingredientName" json:"ingredientName"`
	Amount         Amount    `bson:"amount,omitempty" json:"amount,omitempty"`
	Purchased      bool      `bson:"purchased" json:"purchased"`
	AddedAt        time.Time `bson:"addedAt" json:"addedAt"`
}

// ShoppingList is owned exclusively by OwnerID; every mutating operation
// filters on both the list id and the owner.
type ShoppingList struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Items     []ShoppingItem     `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
