package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDeliveryMethodCost(t *testing.T) {
	tests := []struct {
		method DeliveryMethod
		want   int64
	}{
		{DeliveryMaleHulhumale, 20},
		{DeliveryAtolls, 45},
		{DeliveryPickup, 0},
	}

	for _, tt := range tests {
		if !tt.method.Valid() {
			t.Errorf("%s: Valid() = false", tt.method)
		}
		if !tt.method.Cost().Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("%s: Cost() = %s, want %d", tt.method, tt.method.Cost(), tt.want)
		}
	}

	if DeliveryMethod("Express").Valid() {
		t.Error("unknown method reported valid")
	}
}

func TestDeliveryInfoMissingFields(t *testing.T) {
	full := DeliveryInfo{
		FirstName:  "Aishath",
		LastName:   "Ali",
		Address:    "M. Rose Villa",
		City:       "Male",
		PostalCode: "20002",
		Phone:      "+9607771234",
	}
	if missing := full.MissingFields(); len(missing) != 0 {
		t.Errorf("complete info reported missing: %v", missing)
	}

	partial := full
	partial.City = ""
	partial.Phone = ""
	missing := partial.MissingFields()
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want [city phone]", missing)
	}
	if missing[0] != "city" || missing[1] != "phone" {
		t.Errorf("missing = %v, want [city phone]", missing)
	}
}
