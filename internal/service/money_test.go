package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommission(t *testing.T) {
	tests := []struct {
		name           string
		price, percent float64
		wantCommission float64
		wantProceeds   float64
	}{
		{name: "ten percent", price: 1000, percent: 10, wantCommission: 100, wantProceeds: 900},
		{name: "five percent of 150", price: 150, percent: 5, wantCommission: 7.5, wantProceeds: 142.5},
		{name: "no commission", price: 99.99, percent: 0, wantCommission: 0, wantProceeds: 99.99},
		{name: "rounds half away from zero", price: 10.05, percent: 50, wantCommission: 5.03, wantProceeds: 5.02},
		{name: "float noise", price: 0.1 + 0.2, percent: 10, wantCommission: 0.03, wantProceeds: 0.27},
		{name: "whole price", price: 250, percent: 100, wantCommission: 250, wantProceeds: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, p := SplitCommission(tt.price, tt.percent)
			assert.Equal(t, tt.wantCommission, c)
			assert.Equal(t, tt.wantProceeds, p)
		})
	}
}
