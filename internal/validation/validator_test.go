// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	ItemName string  `validate:"required,min=1,max=10"`
	TopN     int     `validate:"gte=1,lte=5"`
	Support  float64 `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name     string
		req      sampleRequest
		wantErr  bool
		contains string
	}{
		{
			name: "valid struct passes",
			req:  sampleRequest{ItemName: "Milk", TopN: 5, Support: 0.01},
		},
		{
			name:     "missing required field",
			req:      sampleRequest{TopN: 5},
			wantErr:  true,
			contains: "ItemName is required",
		},
		{
			name:     "value above max",
			req:      sampleRequest{ItemName: "Milk", TopN: 9},
			wantErr:  true,
			contains: "TopN must be <= 5",
		},
		{
			name:     "value too long",
			req:      sampleRequest{ItemName: "a very long item name", TopN: 3},
			wantErr:  true,
			contains: "ItemName must be at most 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr == nil {
				return
			}
			if verr.Code() != "VALIDATION_ERROR" {
				t.Errorf("Code() = %q, want VALIDATION_ERROR", verr.Code())
			}
			if !strings.Contains(verr.Message(), tt.contains) {
				t.Errorf("Message() = %q, want substring %q", verr.Message(), tt.contains)
			}
		})
	}
}

func TestValidateStruct_MultipleFailures(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{TopN: 0, Support: -1})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	msg := verr.Message()
	for _, want := range []string{"ItemName", "TopN", "Support"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message() = %q, missing field %q", msg, want)
		}
	}
}
